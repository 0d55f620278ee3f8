package handler

import "github.com/webscaffold/webapp/internal/core/domain"

func toExampleInput(req exampleRequest) domain.ExampleInput {
	return domain.ExampleInput{
		Title:       req.Title,
		Description: req.Description,
	}
}

func toExampleResponse(ex *domain.Example) exampleResponse {
	return exampleResponse{
		ID:          ex.ID,
		Title:       ex.Title,
		Description: ex.Description,
		Owner:       ex.Owner,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

func toExampleListResponse(p *domain.Page[*domain.Example]) exampleListResponse {
	items := make([]exampleResponse, 0, len(p.Items))
	for _, ex := range p.Items {
		items = append(items, toExampleResponse(ex))
	}
	return exampleListResponse{Items: items, Limit: p.Limit, Offset: p.Offset, Total: p.Total}
}
