package mapper

import (
	"mentor-scheduler/modules/role/dto"
	"mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

func ToProfileResponse(kind entity.Kind, p *entity.Profile, classIDs []uuid.UUID) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	if classIDs == nil {
		classIDs = []uuid.UUID{}
	}
	return &dto.ProfileResponse{
		ID:          p.ID,
		Kind:        string(kind),
		DisplayName: p.Name,
		Timezone:    p.Timezone,
		Status:      string(p.Status),
		ClassIDs:    classIDs,
		CreatedAt:   p.CreatedAt,
	}
}

func ToLeaderResponse(l *entity.Leader) *dto.ProfileResponse {
	if l == nil {
		return nil
	}
	return ToProfileResponse(entity.KindLeader, &l.Profile, l.ClassIDs)
}

func ToPartnerResponse(p *entity.Partner) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return ToProfileResponse(entity.KindPartner, &p.Profile, p.ClassIDs)
}

func ToMeResponse(rc *entity.RequestContext) *dto.MeResponse {
	resp := &dto.MeResponse{
		UserType: rc.Identity.UserType,
		UserID:   rc.Identity.UserID,
		Mode:     string(rc.Mode),
		Leader:   ToLeaderResponse(rc.Leader),
		Partner:  ToPartnerResponse(rc.Partner),
	}
	if actor := rc.Actor(); actor != nil {
		if actor.Kind() == entity.KindLeader {
			resp.Current = resp.Leader
		} else {
			resp.Current = resp.Partner
		}
	}
	return resp
}

func ToModeResponse(rc *entity.RequestContext) *dto.ModeResponse {
	return &dto.ModeResponse{
		Mode:       string(rc.Mode),
		HasLeader:  rc.Leader != nil,
		HasPartner: rc.Partner != nil,
	}
}
