package members_controllers

import (
	members_services "taskflow/internal/features/members/services"
	"taskflow/internal/util/rate_limit"
)

var memberController = &MemberController{
	memberService: members_services.GetMemberService(),
	signinLimiter: rate_limit.NewKeyedRateLimiter("member_signin", 3, 3),
}

func GetMemberController() *MemberController {
	return memberController
}
