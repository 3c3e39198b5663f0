package downdetect

import (
	"taskflow/internal/storage"
)

var downdetectService = &DowndetectService{
	storage.GetStore,
}
var downdetectController = &DowndetectController{
	downdetectService,
}

func GetDowndetectController() *DowndetectController {
	return downdetectController
}
