package system_healthcheck

import (
	"taskflow/internal/storage"
)

var healthcheckService = &HealthcheckService{
	storage.GetStore,
}
var healthcheckController = &HealthcheckController{
	healthcheckService,
}

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
