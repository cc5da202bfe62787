package repository

import (
	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
)

type MeshRepository struct {
	DB *gorm.DB
}

func NewMeshRepository(db *gorm.DB) *MeshRepository {
	return &MeshRepository{DB: db}
}

func (r *MeshRepository) Create(mesh *model.Mesh) error {
	return r.DB.Create(mesh).Error
}

func (r *MeshRepository) FindByID(id string) (*model.Mesh, error) {
	var mesh model.Mesh
	err := r.DB.Preload("Groups").First(&mesh, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &mesh, nil
}

// FindByIDs batch-loads meshes with their group memberships. Ids that match
// nothing are silently omitted, so the result may be shorter than the input.
func (r *MeshRepository) FindByIDs(ids []string) ([]model.Mesh, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var meshes []model.Mesh
	err := r.DB.Preload("Groups").Where("id IN ?", ids).Find(&meshes).Error
	return meshes, err
}

func (r *MeshRepository) List(studyYear *int) ([]model.Mesh, error) {
	var meshes []model.Mesh
	query := r.DB.Preload("Groups")
	if studyYear != nil {
		query = query.Where("default_study_year = ?", *studyYear)
	}
	err := query.Order("display_name asc").Find(&meshes).Error
	return meshes, err
}

func (r *MeshRepository) Update(mesh *model.Mesh) error {
	return r.DB.Save(mesh).Error
}

// ReplaceGroups swaps the mesh's whole group membership set.
func (r *MeshRepository) ReplaceGroups(mesh *model.Mesh, groups []model.OrganGroup) error {
	return r.DB.Model(mesh).Association("Groups").Replace(groups)
}

func (r *MeshRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		mesh := model.Mesh{UUIDBase: model.UUIDBase{ID: id}}
		if err := tx.Model(&mesh).Association("Groups").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Mesh{}, "id = ?", id).Error
	})
}

func (r *MeshRepository) ExistsByName(meshName string, excludeID string) (bool, error) {
	var count int64
	query := r.DB.Model(&model.Mesh{}).Where("mesh_name = ?", meshName)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
