package mapper

import (
	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/model"
)

type RegistryMapper struct{}

func NewRegistryMapper() *RegistryMapper {
	return &RegistryMapper{}
}

func (m *RegistryMapper) AppToEntity(a *model.App) *entity.App {
	if a == nil {
		return nil
	}
	return &entity.App{
		Id:         a.Id,
		Name:       a.Name,
		LogoUrl:    a.LogoUrl,
		Url:        a.Url,
		Active:     a.Active,
		AccessRole: a.AccessRole,
		Database:   a.Database,
		Schema:     a.Schema,
		Stage:      a.Stage,
	}
}

func (m *RegistryMapper) AppToModel(a *entity.App) *model.App {
	if a == nil {
		return nil
	}
	return &model.App{
		Id:         a.Id,
		Name:       a.Name,
		LogoUrl:    a.LogoUrl,
		Url:        a.Url,
		Active:     a.Active,
		AccessRole: a.AccessRole,
		Database:   a.Database,
		Schema:     a.Schema,
		Stage:      a.Stage,
	}
}

func (m *RegistryMapper) SemanticModelToEntity(s *model.SemanticModel) *entity.SemanticModel {
	if s == nil {
		return nil
	}
	return &entity.SemanticModel{
		Id:     s.Id,
		AppId:  s.AppId,
		Name:   s.Name,
		File:   s.File,
		Active: s.Active,
	}
}

func (m *RegistryMapper) SemanticModelToModel(s *entity.SemanticModel) *model.SemanticModel {
	if s == nil {
		return nil
	}
	return &model.SemanticModel{
		Id:     s.Id,
		AppId:  s.AppId,
		Name:   s.Name,
		File:   s.File,
		Active: s.Active,
	}
}
