package mapper

import (
	"mentor-scheduler/modules/class/dto"
	"mentor-scheduler/modules/class/entity"
)

func ToClassResponse(c *entity.Class) dto.ClassResponse {
	return dto.ClassResponse{
		ID:        c.ID,
		LeaderID:  c.LeaderID,
		Name:      c.Name,
		Slug:      c.Slug,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

func ToClassPaginationResponse(page *entity.PaginatedClassEntity) *dto.PaginatedClassResponse {
	resp := &dto.PaginatedClassResponse{}
	resp.Items = []dto.ClassResponse{}
	if page == nil {
		return resp
	}

	for i := range page.Items {
		resp.Items = append(resp.Items, ToClassResponse(&page.Items[i]))
	}
	resp.TotalItems = page.TotalItems
	resp.PageNumber = page.PageNumber
	resp.PageSize = page.PageSize
	if page.PageSize > 0 {
		resp.TotalPages = (page.TotalItems + page.PageSize - 1) / page.PageSize
	}
	return resp
}
