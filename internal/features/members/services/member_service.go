package members_services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	audit_logs "taskflow/internal/features/audit_logs"
	members_dto "taskflow/internal/features/members/dto"
	members_models "taskflow/internal/features/members/models"
	members_repositories "taskflow/internal/features/members/repositories"
	projects_models "taskflow/internal/features/projects/models"
	projects_services "taskflow/internal/features/projects/services"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const defaultMemberRole = "member"

// maxConcurrentMemberReads bounds the fan-out of by-id member reads.
const maxConcurrentMemberReads = 10

var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

type MemberService struct {
	memberRepository *members_repositories.MemberRepository
	projectService   *projects_services.ProjectService
	auditLogService  *audit_logs.AuditLogService
	logger           *slog.Logger
}

func (s *MemberService) CreateMember(
	ctx context.Context,
	request *members_dto.CreateMemberRequestDTO,
	creator *users_models.User,
) (*members_models.Member, error) {
	if creator == nil {
		return nil, apperrors.Unauthenticated()
	}

	name, firstName, lastName := members_models.NormalizeName(
		request.Name, request.FirstName, request.LastName, request.Prenom, request.Nom,
	)
	if name == "" {
		return nil, apperrors.Validation("name", "member name is required")
	}

	email := members_repositories.NormalizeEmail(request.Email)
	if email == "" {
		return nil, apperrors.Validation("email", "member email is required")
	}

	if err := s.ensureEmailAvailable(ctx, email, ""); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(request.Phone)
	if phone == "" {
		phone = strings.TrimSpace(request.Telephone)
	}

	role := strings.TrimSpace(request.Role)
	if role == "" {
		role = defaultMemberRole
	}

	now := time.Now().UTC()
	member := &members_models.Member{
		ID:        uuid.New().String(),
		Name:      name,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Role:      role,
		CreatedBy: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if request.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		hash := string(hashedPassword)
		member.HashedPassword = &hash
		member.HasSetPassword = true
	}

	if err := s.memberRepository.CreateMember(ctx, member); err != nil {
		return nil, apperrors.StoreFailure("create member", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member created: %s", member.Name),
		&creator.ID,
		nil,
	)

	return member, nil
}

// GetMemberByID returns nil for a missing id.
func (s *MemberService) GetMemberByID(ctx context.Context, memberID string) (*members_models.Member, error) {
	member, err := s.memberRepository.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, apperrors.StoreFailure("get member", err)
	}

	return member, nil
}

func (s *MemberService) GetMember(
	ctx context.Context,
	memberID string,
	user *users_models.User,
) (*members_models.Member, error) {
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}

	return s.getExistingMember(ctx, memberID)
}

func (s *MemberService) UpdateMember(
	ctx context.Context,
	memberID string,
	request *members_dto.UpdateMemberRequestDTO,
	user *users_models.User,
) (*members_models.Member, error) {
	member, err := s.getManageableMember(ctx, memberID, user)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	var unset []string

	if renamesMember(request) {
		name, firstName, lastName := mergeName(member, request)
		if name == "" {
			return nil, apperrors.Validation("name", "member name is required")
		}

		fields["name"] = name
		fields["firstName"] = firstName
		fields["lastName"] = lastName
		unset = append(unset, "prenom", "nom")
	}

	if request.Email != nil {
		email := members_repositories.NormalizeEmail(*request.Email)
		if email == "" {
			return nil, apperrors.Validation("email", "member email is required")
		}

		if email != member.Email {
			if err := s.ensureEmailAvailable(ctx, email, member.ID); err != nil {
				return nil, err
			}
		}
		fields["email"] = email
	}
	if request.Phone != nil {
		fields["phone"] = strings.TrimSpace(*request.Phone)
		unset = append(unset, "telephone")
	}
	if request.Role != nil {
		fields["role"] = strings.TrimSpace(*request.Role)
	}

	if err := s.memberRepository.UpdateMember(ctx, memberID, fields, unset); err != nil {
		return nil, apperrors.FromStore("update member", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member updated: %s", member.Name),
		&user.ID,
		nil,
	)

	return s.getExistingMember(ctx, memberID)
}

func (s *MemberService) DeleteMember(ctx context.Context, memberID string, user *users_models.User) error {
	member, err := s.getManageableMember(ctx, memberID, user)
	if err != nil {
		return err
	}

	if err := s.memberRepository.DeleteMember(ctx, memberID); err != nil {
		return apperrors.FromStore("delete member", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member deleted: %s", member.Name),
		&user.ID,
		nil,
	)

	return nil
}

// GetUserMembers returns the members created by userID. An empty id yields
// an empty list.
func (s *MemberService) GetUserMembers(ctx context.Context, userID string) ([]*members_models.Member, error) {
	if userID == "" {
		return []*members_models.Member{}, nil
	}

	members, err := s.memberRepository.GetMembersCreatedBy(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreFailure("list user members", err)
	}

	return members, nil
}

// GetProjectMembers returns the members listed on the project in the
// project's order. Ids that no longer resolve to a member are skipped.
func (s *MemberService) GetProjectMembers(
	ctx context.Context,
	projectID string,
	user *users_models.User,
) ([]*members_models.Member, error) {
	project, err := s.projectService.GetProject(ctx, projectID, user)
	if err != nil {
		return nil, err
	}

	return s.getMembersByIDs(ctx, project.Members)
}

// GetUserProjectsMembers returns the distinct members of every project the
// user owns or belongs to.
func (s *MemberService) GetUserProjectsMembers(
	ctx context.Context,
	user *users_models.User,
) ([]*members_models.Member, error) {
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}

	projects, err := s.projectService.GetUserProjects(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	memberIDs := make([]string, 0)
	for _, project := range projects {
		for _, memberID := range project.Members {
			if _, ok := seen[memberID]; ok {
				continue
			}
			seen[memberID] = struct{}{}
			memberIDs = append(memberIDs, memberID)
		}
	}

	return s.getMembersByIDs(ctx, memberIDs)
}

// GetMemberProjects returns the projects listing memberID that the user
// can see.
func (s *MemberService) GetMemberProjects(
	ctx context.Context,
	memberID string,
	user *users_models.User,
) ([]*projects_models.Project, error) {
	if _, err := s.getExistingMember(ctx, memberID); err != nil {
		return nil, err
	}

	projects, err := s.projectService.GetMemberProjects(ctx, memberID)
	if err != nil {
		return nil, err
	}

	visible := make([]*projects_models.Project, 0, len(projects))
	for _, project := range projects {
		if project.CanBeAccessedBy(user) {
			visible = append(visible, project)
		}
	}

	return visible, nil
}

// SearchMembers matches members whose name starts with query. Admins search
// every member, other users only the members they created.
func (s *MemberService) SearchMembers(
	ctx context.Context,
	query string,
	user *users_models.User,
) ([]*members_models.Member, error) {
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetUserMembers(ctx, user.ID)
	}

	createdBy := user.ID
	if user.Role == users_enums.UserRoleAdmin {
		createdBy = ""
	}

	members, err := s.memberRepository.SearchByName(ctx, query, createdBy)
	if err != nil {
		return nil, apperrors.StoreFailure("search members", err)
	}

	return members, nil
}

// Authenticate checks a member's credentials. An unknown email and a wrong
// password fail with the same error.
func (s *MemberService) Authenticate(
	ctx context.Context,
	request *members_dto.MemberSignInRequestDTO,
) (*members_models.Member, error) {
	member, err := s.memberRepository.GetMemberByEmail(ctx, request.Email)
	if err != nil {
		return nil, apperrors.StoreFailure("get member by email", err)
	}

	if member == nil || !member.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(request.Password))
		return nil, apperrors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*member.HashedPassword), []byte(request.Password)); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	return member, nil
}

func (s *MemberService) SetPassword(
	ctx context.Context,
	memberID string,
	password string,
	user *users_models.User,
) error {
	member, err := s.getManageableMember(ctx, memberID, user)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.memberRepository.UpdatePassword(ctx, memberID, string(hashedPassword)); err != nil {
		return apperrors.FromStore("set member password", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Password set for member: %s", member.Name),
		&user.ID,
		nil,
	)

	return nil
}

func (s *MemberService) getMembersByIDs(ctx context.Context, memberIDs []string) ([]*members_models.Member, error) {
	resolved := make([]*members_models.Member, len(memberIDs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentMemberReads)

	for i, memberID := range memberIDs {
		i, memberID := i, memberID
		group.Go(func() error {
			member, err := s.memberRepository.GetMemberByID(groupCtx, memberID)
			if err != nil {
				return err
			}

			resolved[i] = member
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, apperrors.StoreFailure("get members", err)
	}

	members := make([]*members_models.Member, 0, len(resolved))
	for i, member := range resolved {
		if member == nil {
			s.logger.Debug("skipping unresolved member id", "memberId", memberIDs[i])
			continue
		}
		members = append(members, member)
	}

	return members, nil
}

func (s *MemberService) getExistingMember(ctx context.Context, memberID string) (*members_models.Member, error) {
	member, err := s.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if member == nil {
		return nil, apperrors.NotFound("member", memberID)
	}

	return member, nil
}

func (s *MemberService) getManageableMember(
	ctx context.Context,
	memberID string,
	user *users_models.User,
) (*members_models.Member, error) {
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}

	member, err := s.getExistingMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if !member.CanBeManagedBy(user) {
		return nil, apperrors.PermissionDenied("insufficient permissions to manage member")
	}

	return member, nil
}

// ensureEmailAvailable fails when another member already uses email.
func (s *MemberService) ensureEmailAvailable(ctx context.Context, email string, exceptID string) error {
	existing, err := s.memberRepository.GetMemberByEmail(ctx, email)
	if err != nil {
		return apperrors.StoreFailure("get member by email", err)
	}

	if existing != nil && existing.ID != exceptID {
		return apperrors.Validation("email", "a member with this email already exists")
	}

	return nil
}

func renamesMember(request *members_dto.UpdateMemberRequestDTO) bool {
	return request.Name != nil || request.FirstName != nil || request.LastName != nil ||
		request.Prenom != nil || request.Nom != nil
}

// mergeName applies the name fields of request over the member's current
// name. A new name without parts is split again.
func mergeName(member *members_models.Member, request *members_dto.UpdateMemberRequestDTO) (string, string, string) {
	firstName, lastName := member.FirstName, member.LastName
	partsGiven := false

	if request.FirstName != nil {
		firstName, partsGiven = *request.FirstName, true
	} else if request.Prenom != nil {
		firstName, partsGiven = *request.Prenom, true
	}
	if request.LastName != nil {
		lastName, partsGiven = *request.LastName, true
	} else if request.Nom != nil {
		lastName, partsGiven = *request.Nom, true
	}

	name := ""
	if request.Name != nil {
		name = *request.Name
		if !partsGiven {
			firstName, lastName = "", ""
		}
	}

	return members_models.NormalizeName(name, firstName, lastName, "", "")
}
