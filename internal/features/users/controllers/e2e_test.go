package users_controllers

import (
	"net/http"
	"testing"

	users_dto "taskflow/internal/features/users/dto"
	users_enums "taskflow/internal/features/users/enums"
	users_middleware "taskflow/internal/features/users/middleware"
	users_services "taskflow/internal/features/users/services"
	users_testing "taskflow/internal/features/users/testing"
	test_utils "taskflow/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func Test_AdminLifecycleE2E_CompletesSuccessfully(t *testing.T) {
	router := createUserTestRouter()

	users_testing.RecreateInitialAdmin()

	// 1. Set initial admin password
	adminPasswordRequest := users_dto.SetAdminPasswordRequestDTO{
		Password: "adminpassword123",
	}
	test_utils.MakePostRequest(t, router, "/api/v1/users/admin/set-password", "", adminPasswordRequest, http.StatusOK)

	// 2. Admin signs in
	var adminSigninResponse users_dto.SignInResponseDTO
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		"/api/v1/users/signin",
		"",
		users_dto.SignInRequestDTO{Email: "admin", Password: "adminpassword123"},
		http.StatusOK,
		&adminSigninResponse,
	)

	// 3. Admin reads own profile
	var profile users_dto.UserProfileResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/api/v1/users/me",
		"Bearer "+adminSigninResponse.Token,
		http.StatusOK,
		&profile,
	)
	assert.Equal(t, users_enums.UserRoleAdmin, profile.Role)

	// 4. Setting the password a second time is rejected
	test_utils.MakePostRequest(t, router, "/api/v1/users/admin/set-password", "", adminPasswordRequest, http.StatusBadRequest)
}

func Test_UserLifecycleE2E_CompletesSuccessfully(t *testing.T) {
	router := createUserTestRouter()

	// 1. User registers
	userEmail := "testuser" + uuid.New().String() + "@example.com"
	test_utils.MakePostRequest(t, router, "/api/v1/users/signup", "", users_dto.SignUpRequestDTO{
		Email:     userEmail,
		Password:  "userpassword123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}, http.StatusOK)

	// 2. User signs in
	var signinResponse users_dto.SignInResponseDTO
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		"/api/v1/users/signin",
		"",
		users_dto.SignInRequestDTO{Email: userEmail, Password: "userpassword123"},
		http.StatusOK,
		&signinResponse,
	)
	assert.NotEmpty(t, signinResponse.Token)
	assert.NotEmpty(t, signinResponse.UserID)

	// 3. User gets own profile
	var profileResponse users_dto.UserProfileResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/api/v1/users/me",
		"Bearer "+signinResponse.Token,
		http.StatusOK,
		&profileResponse,
	)
	assert.Equal(t, signinResponse.UserID, profileResponse.ID)
	assert.Equal(t, userEmail, profileResponse.Email)
	assert.Equal(t, "Ada", profileResponse.FirstName)
	assert.Equal(t, users_enums.UserRoleMember, profileResponse.Role)
	assert.True(t, profileResponse.IsActive)

	// 4. Password change invalidates the old token
	test_utils.MakePutRequest(
		t,
		router,
		"/api/v1/users/change-password",
		"Bearer "+signinResponse.Token,
		users_dto.ChangePasswordRequestDTO{NewPassword: "newpassword123"},
		http.StatusOK,
	)
}

func createUserTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")

	// Register public routes
	GetUserController().RegisterRoutes(v1)

	// Register protected routes with auth middleware
	protected := v1.Group("").Use(users_middleware.AuthMiddleware(users_services.GetUserService()))
	GetUserController().RegisterProtectedRoutes(protected.(*gin.RouterGroup))
	GetUserController().SetSignInLimiter(rate.NewLimiter(rate.Limit(100), 100))

	// Setup audit log service
	users_services.GetUserService().SetAuditLogWriter(&AuditLogWriterStub{})

	return router
}

type AuditLogWriterStub struct{}

func (a *AuditLogWriterStub) WriteAuditLog(message string, userID *string, projectID *string) {
	// do nothing
}
