package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/repository"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

// CatalogService owns the reference data the 3D client and the aggregator
// resolve against: meshes, organ groups and their membership relation.
type CatalogService struct {
	MeshRepo  *repository.MeshRepository
	GroupRepo *repository.OrganGroupRepository
	Storage   *StorageService
}

func NewCatalogService(meshRepo *repository.MeshRepository, groupRepo *repository.OrganGroupRepository, storage *StorageService) *CatalogService {
	return &CatalogService{MeshRepo: meshRepo, GroupRepo: groupRepo, Storage: storage}
}

type MeshReq struct {
	MeshName         *string   `json:"meshName"`
	DisplayName      *string   `json:"displayName"`
	DefaultStudyYear *int      `json:"defaultStudyYear"`
	OrganGroupIDs    *[]string `json:"organGroupIds"`
}

type OrganGroupReq struct {
	GroupName        *string `json:"groupName"`
	Description      *string `json:"description"`
	DefaultStudyYear *int    `json:"defaultStudyYear"`
}

// resolveGroups turns a membership id list into loaded groups, rejecting
// unknown ids so authoring cannot create dangling memberships.
func (s *CatalogService) resolveGroups(ids []string) ([]model.OrganGroup, error) {
	for _, id := range ids {
		if !util.IsWellFormedID(id) {
			return nil, fmt.Errorf("%w: organ group id %q is not well-formed", util.ErrValidation, id)
		}
	}
	groups, err := s.GroupRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(groups) != len(ids) {
		return nil, fmt.Errorf("%w: one or more organ group ids are unknown", util.ErrValidation)
	}
	return groups, nil
}

func (s *CatalogService) CreateMesh(req MeshReq) (*model.Mesh, error) {
	if req.MeshName == nil || *req.MeshName == "" {
		return nil, fmt.Errorf("%w: meshName is required", util.ErrValidation)
	}
	if req.DisplayName == nil || *req.DisplayName == "" {
		return nil, fmt.Errorf("%w: displayName is required", util.ErrValidation)
	}
	taken, err := s.MeshRepo.ExistsByName(*req.MeshName, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrMeshNameTaken
	}

	mesh := &model.Mesh{
		MeshName:         *req.MeshName,
		DisplayName:      *req.DisplayName,
		DefaultStudyYear: req.DefaultStudyYear,
	}
	if req.OrganGroupIDs != nil {
		groups, err := s.resolveGroups(*req.OrganGroupIDs)
		if err != nil {
			return nil, err
		}
		mesh.Groups = groups
	}

	if err := s.MeshRepo.Create(mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}

func (s *CatalogService) GetMesh(id string) (*model.Mesh, error) {
	mesh, err := s.MeshRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeshNotFound
		}
		return nil, err
	}
	return mesh, nil
}

func (s *CatalogService) ListMeshes(studyYear *int) ([]model.Mesh, error) {
	return s.MeshRepo.List(studyYear)
}

func (s *CatalogService) UpdateMesh(id string, req MeshReq) (*model.Mesh, error) {
	mesh, err := s.GetMesh(id)
	if err != nil {
		return nil, err
	}

	if req.MeshName != nil && *req.MeshName != mesh.MeshName {
		if *req.MeshName == "" {
			return nil, fmt.Errorf("%w: meshName must not be empty", util.ErrValidation)
		}
		taken, err := s.MeshRepo.ExistsByName(*req.MeshName, mesh.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrMeshNameTaken
		}
		mesh.MeshName = *req.MeshName
	}
	if req.DisplayName != nil {
		mesh.DisplayName = *req.DisplayName
	}
	if req.DefaultStudyYear != nil {
		mesh.DefaultStudyYear = req.DefaultStudyYear
	}

	if req.OrganGroupIDs != nil {
		groups, err := s.resolveGroups(*req.OrganGroupIDs)
		if err != nil {
			return nil, err
		}
		if err := s.MeshRepo.ReplaceGroups(mesh, groups); err != nil {
			return nil, err
		}
		mesh.Groups = groups
	}

	if err := s.MeshRepo.Update(mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}

// DeleteMesh removes the mesh and its memberships. Questions and submission
// answers that reference it are left alone; the aggregator renders them
// with placeholder names from then on.
func (s *CatalogService) DeleteMesh(id string) error {
	if _, err := s.GetMesh(id); err != nil {
		return err
	}
	return s.MeshRepo.Delete(id)
}

// AttachModelFile stores the mesh's 3D model (GLB) through the configured
// storage provider and records the resulting URL on the mesh.
func (s *CatalogService) AttachModelFile(ctx context.Context, id, filename string, reader io.Reader, size int64) (*model.Mesh, error) {
	mesh, err := s.GetMesh(id)
	if err != nil {
		return nil, err
	}

	objectName := "meshes/" + mesh.ID + path.Ext(filename)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, "model/gltf-binary")
	if err != nil {
		return nil, err
	}

	mesh.ModelFile = url
	if err := s.MeshRepo.Update(mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}

func (s *CatalogService) CreateGroup(req OrganGroupReq) (*model.OrganGroup, error) {
	if req.GroupName == nil || *req.GroupName == "" {
		return nil, fmt.Errorf("%w: groupName is required", util.ErrValidation)
	}
	taken, err := s.GroupRepo.ExistsByName(*req.GroupName, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrGroupNameTaken
	}

	group := &model.OrganGroup{
		GroupName:        *req.GroupName,
		DefaultStudyYear: req.DefaultStudyYear,
	}
	if req.Description != nil {
		group.Description = *req.Description
	}

	if err := s.GroupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *CatalogService) GetGroup(id string) (*model.OrganGroup, error) {
	group, err := s.GroupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *CatalogService) ListGroups() ([]model.OrganGroup, error) {
	return s.GroupRepo.List()
}

func (s *CatalogService) UpdateGroup(id string, req OrganGroupReq) (*model.OrganGroup, error) {
	group, err := s.GetGroup(id)
	if err != nil {
		return nil, err
	}

	if req.GroupName != nil && *req.GroupName != group.GroupName {
		if *req.GroupName == "" {
			return nil, fmt.Errorf("%w: groupName must not be empty", util.ErrValidation)
		}
		taken, err := s.GroupRepo.ExistsByName(*req.GroupName, group.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrGroupNameTaken
		}
		group.GroupName = *req.GroupName
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.DefaultStudyYear != nil {
		group.DefaultStudyYear = req.DefaultStudyYear
	}

	if err := s.GroupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup clears memberships and removes the group. Group-target
// questions pointing at it degrade to "Unknown Target Group" in results.
func (s *CatalogService) DeleteGroup(id string) error {
	if _, err := s.GetGroup(id); err != nil {
		return err
	}
	return s.GroupRepo.Delete(id)
}
