package projects_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_models "taskflow/internal/features/projects/models"
	projects_services "taskflow/internal/features/projects/services"
	users_dto "taskflow/internal/features/users/dto"
	users_middleware "taskflow/internal/features/users/middleware"
	users_models "taskflow/internal/features/users/models"
	users_services "taskflow/internal/features/users/services"

	"github.com/gin-gonic/gin"
)

func CreateTestRouter(controllers ...ControllerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	protected := v1.Group("").Use(users_middleware.AuthMiddleware(users_services.GetUserService()))

	for _, controller := range controllers {
		if routerGroup, ok := protected.(*gin.RouterGroup); ok {
			controller.RegisterRoutes(routerGroup)
		}
	}

	audit_logs.SetupDependencies()

	return router
}

// CreateTestProject creates a project through the HTTP API as owner.
func CreateTestProject(name string, owner *users_dto.SignInResponseDTO, router *gin.Engine) *projects_models.Project {
	request := projects_dto.CreateProjectRequestDTO{Name: name}
	w := MakeAPIRequest(router, "POST", "/api/v1/projects", "Bearer "+owner.Token, request)

	if w.Code != http.StatusOK {
		panic(fmt.Sprintf("Failed to create project. Status: %d, Body: %s", w.Code, w.Body.String()))
	}

	var project projects_models.Project
	if err := json.Unmarshal(w.Body.Bytes(), &project); err != nil {
		panic(err)
	}

	return &project
}

// CreateTestProjectForUser creates a project through the service, for
// tests that do not build a router.
func CreateTestProjectForUser(name string, owner *users_models.User) *projects_models.Project {
	project, err := projects_services.GetProjectService().CreateProject(
		context.Background(),
		&projects_dto.CreateProjectRequestDTO{Name: name},
		owner,
	)
	if err != nil {
		panic(err)
	}

	return project
}

func AddMemberToProject(projectID string, memberID string, owner *users_models.User) {
	err := projects_services.GetMembershipService().AddMember(context.Background(), projectID, memberID, owner)
	if err != nil {
		panic("Failed to add member to project: " + err.Error())
	}
}

func GetProject(projectID string) *projects_models.Project {
	project, err := projects_services.GetProjectService().GetProjectByID(context.Background(), projectID)
	if err != nil {
		panic(err)
	}

	return project
}

func MakeAPIRequest(router *gin.Engine, method, url, authToken string, body any) *httptest.ResponseRecorder {
	var requestBody *bytes.Buffer
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		requestBody = bytes.NewBuffer(bodyJSON)
	} else {
		requestBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, requestBody)
	if err != nil {
		panic(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
