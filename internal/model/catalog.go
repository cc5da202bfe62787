package model

// Mesh is one clickable anatomical model in the 3D client. A mesh may belong
// to any number of organ groups.
// swagger:model Mesh
type Mesh struct {
	UUIDBase
	MeshName         string       `gorm:"size:255;uniqueIndex;not null" json:"meshName"`
	DisplayName      string       `gorm:"size:255;not null" json:"displayName"`
	DefaultStudyYear *int         `json:"defaultStudyYear,omitempty"`
	ModelFile        string       `gorm:"size:512" json:"modelFile,omitempty"`
	Groups           []OrganGroup `gorm:"many2many:mesh_organ_groups" json:"organGroups,omitempty"`
}

func (Mesh) TableName() string {
	return "meshes"
}

// InGroup reports whether the mesh belongs to the given organ group.
func (m *Mesh) InGroup(groupID string) bool {
	for _, g := range m.Groups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

// swagger:model OrganGroup
type OrganGroup struct {
	UUIDBase
	GroupName        string `gorm:"size:255;uniqueIndex;not null" json:"groupName"`
	Description      string `gorm:"type:text" json:"description,omitempty"`
	DefaultStudyYear *int   `json:"defaultStudyYear,omitempty"`
	Meshes           []Mesh `gorm:"many2many:mesh_organ_groups" json:"meshes,omitempty"`
}

func (OrganGroup) TableName() string {
	return "organ_groups"
}
