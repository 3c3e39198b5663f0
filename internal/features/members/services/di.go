package members_services

import (
	"taskflow/internal/features/audit_logs"
	members_repositories "taskflow/internal/features/members/repositories"
	projects_services "taskflow/internal/features/projects/services"
	"taskflow/internal/util/logger"
)

var memberRepository = &members_repositories.MemberRepository{}

var memberService = &MemberService{
	memberRepository,
	projects_services.GetProjectService(),
	audit_logs.GetAuditLogService(),
	logger.GetLogger(),
}

func GetMemberService() *MemberService {
	return memberService
}
