package repository

import (
	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
)

type OrganGroupRepository struct {
	DB *gorm.DB
}

func NewOrganGroupRepository(db *gorm.DB) *OrganGroupRepository {
	return &OrganGroupRepository{DB: db}
}

func (r *OrganGroupRepository) Create(group *model.OrganGroup) error {
	return r.DB.Create(group).Error
}

func (r *OrganGroupRepository) FindByID(id string) (*model.OrganGroup, error) {
	var group model.OrganGroup
	err := r.DB.Preload("Meshes").First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDs batch-loads groups; unknown ids are silently omitted.
func (r *OrganGroupRepository) FindByIDs(ids []string) ([]model.OrganGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var groups []model.OrganGroup
	err := r.DB.Where("id IN ?", ids).Find(&groups).Error
	return groups, err
}

func (r *OrganGroupRepository) List() ([]model.OrganGroup, error) {
	var groups []model.OrganGroup
	err := r.DB.Order("group_name asc").Find(&groups).Error
	return groups, err
}

func (r *OrganGroupRepository) Update(group *model.OrganGroup) error {
	return r.DB.Save(group).Error
}

func (r *OrganGroupRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		group := model.OrganGroup{UUIDBase: model.UUIDBase{ID: id}}
		if err := tx.Model(&group).Association("Meshes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.OrganGroup{}, "id = ?", id).Error
	})
}

func (r *OrganGroupRepository) ExistsByName(groupName string, excludeID string) (bool, error) {
	var count int64
	query := r.DB.Model(&model.OrganGroup{}).Where("group_name = ?", groupName)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
