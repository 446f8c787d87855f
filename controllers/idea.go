package controllers

import (
	"net/http"

	"postulate-api/middleware"
	"postulate-api/models"
	"postulate-api/services"
	"postulate-api/utils"

	"github.com/gin-gonic/gin"
)

type IdeaController struct {
	ideas *services.IdeaService
}

func NewIdeaController(ideas *services.IdeaService) *IdeaController {
	return &IdeaController{ideas: ideas}
}

type createIdeaRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description" binding:"required"`
	Category    *string       `json:"category"`
	Tags        utils.TagList `json:"tags"`
}

type updateIdeaRequest struct {
	Title       utils.OptionalString `json:"title"`
	Description utils.OptionalString `json:"description"`
	Category    utils.OptionalString `json:"category"`
	Tags        utils.TagList        `json:"tags"`
}

type reviewRequest struct {
	Status   string  `json:"status" binding:"required"`
	Rating   *int    `json:"rating"`
	Feedback *string `json:"feedback"`
}

// Create POST /api/ideas
func (ic *IdeaController) Create(c *gin.Context) {
	var req createIdeaRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, _ := middleware.CurrentActor(c)
	idea, err := ic.ideas.Create(c.Request.Context(), actor, services.IdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags.Value,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Idea created successfully", "idea": idea})
}

// MyIdeas GET /api/ideas/my-ideas
func (ic *IdeaController) MyIdeas(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	ideas, err := ic.ideas.MyIdeas(c.Request.Context(), actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// List GET /api/ideas?status=
func (ic *IdeaController) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	ideas, err := ic.ideas.List(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// Get GET /api/ideas/:id
func (ic *IdeaController) Get(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	idea, err := ic.ideas.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"idea": idea})
}

// Update PATCH /api/ideas/:id
func (ic *IdeaController) Update(c *gin.Context) {
	var req updateIdeaRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, _ := middleware.CurrentActor(c)
	idea, err := ic.ideas.Update(c.Request.Context(), actor, c.Param("id"), services.IdeaPatch{
		Title:       req.Title.Ptr(),
		Description: req.Description.Ptr(),
		Category:    req.Category.Ptr(),
		Tags:        req.Tags.Ptr(),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idea updated successfully", "idea": idea})
}

// Submit POST /api/ideas/:id/submit
func (ic *IdeaController) Submit(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	idea, err := ic.ideas.Submit(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Idea submitted successfully", "idea": idea})
}

// Review POST /api/ideas/:id/review
func (ic *IdeaController) Review(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, _ := middleware.CurrentActor(c)
	review, err := ic.ideas.Review(c.Request.Context(), actor, c.Param("id"), services.ReviewInput{
		Status:   models.ReviewStatus(req.Status),
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted successfully", "review": review})
}

// Delete DELETE /api/ideas/:id
func (ic *IdeaController) Delete(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	if err := ic.ideas.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Idea deleted successfully"})
}
