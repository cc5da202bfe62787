package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/service"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

// CatalogController serves the mesh and organ-group reference data.
type CatalogController struct {
	Service *service.CatalogService
}

func NewCatalogController(svc *service.CatalogService) *CatalogController {
	return &CatalogController{Service: svc}
}

func (c *CatalogController) mapError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrMeshNotFound),
		errors.Is(err, util.ErrGroupNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrValidation),
		errors.Is(err, util.ErrMeshNameTaken),
		errors.Is(err, util.ErrGroupNameTaken):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Create a catalog mesh
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body service.MeshReq true "Mesh"
// @Success 201 {object} util.Response
// @Router /api/meshes [post]
func (c *CatalogController) CreateMesh(ctx *gin.Context) {
	var req service.MeshReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mesh, err := c.Service.CreateMesh(req)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Created(ctx, mesh)
}

// @Summary List catalog meshes
// @Tags catalog
// @Produce json
// @Param studyYear query int false "Filter by default study year"
// @Success 200 {object} util.Response
// @Router /api/meshes [get]
func (c *CatalogController) ListMeshes(ctx *gin.Context) {
	var studyYear *int
	if raw := ctx.Query("studyYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "studyYear must be a number")
			return
		}
		studyYear = &year
	}

	meshes, err := c.Service.ListMeshes(studyYear)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, meshes)
}

// @Summary Get one mesh with its group memberships
// @Tags catalog
// @Produce json
// @Param id path string true "Mesh id"
// @Success 200 {object} util.Response
// @Router /api/meshes/{id} [get]
func (c *CatalogController) GetMesh(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	mesh, err := c.Service.GetMesh(id)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, mesh)
}

// @Summary Update a mesh
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Mesh id"
// @Param body body service.MeshReq true "Mesh"
// @Success 200 {object} util.Response
// @Router /api/meshes/{id} [put]
func (c *CatalogController) UpdateMesh(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	var req service.MeshReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mesh, err := c.Service.UpdateMesh(id, req)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, mesh)
}

// @Summary Delete a mesh
// @Tags catalog
// @Produce json
// @Param id path string true "Mesh id"
// @Success 200 {object} util.Response
// @Router /api/meshes/{id} [delete]
func (c *CatalogController) DeleteMesh(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	if err := c.Service.DeleteMesh(id); err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Upload a mesh's 3D model file
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Mesh id"
// @Param file formData file true "GLB file"
// @Success 200 {object} util.Response
// @Router /api/meshes/{id}/model [post]
func (c *CatalogController) UploadModelFile(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mesh, err := c.Service.AttachModelFile(ctx.Request.Context(), id, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, mesh)
}

// @Summary Create an organ group
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body service.OrganGroupReq true "Organ group"
// @Success 201 {object} util.Response
// @Router /api/organ-groups [post]
func (c *CatalogController) CreateGroup(ctx *gin.Context) {
	var req service.OrganGroupReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.Service.CreateGroup(req)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Created(ctx, group)
}

// @Summary List organ groups
// @Tags catalog
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/organ-groups [get]
func (c *CatalogController) ListGroups(ctx *gin.Context) {
	groups, err := c.Service.ListGroups()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, groups)
}

// @Summary Get one organ group with its member meshes
// @Tags catalog
// @Produce json
// @Param id path string true "Group id"
// @Success 200 {object} util.Response
// @Router /api/organ-groups/{id} [get]
func (c *CatalogController) GetGroup(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	group, err := c.Service.GetGroup(id)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, group)
}

// @Summary Update an organ group
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Group id"
// @Param body body service.OrganGroupReq true "Organ group"
// @Success 200 {object} util.Response
// @Router /api/organ-groups/{id} [put]
func (c *CatalogController) UpdateGroup(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	var req service.OrganGroupReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.Service.UpdateGroup(id, req)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, group)
}

// @Summary Delete an organ group
// @Tags catalog
// @Produce json
// @Param id path string true "Group id"
// @Success 200 {object} util.Response
// @Router /api/organ-groups/{id} [delete]
func (c *CatalogController) DeleteGroup(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	if err := c.Service.DeleteGroup(id); err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}
