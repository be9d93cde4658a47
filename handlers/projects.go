package handlers

import (
	"intake/middleware"
	"intake/models"
	"intake/service"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func SubmitProject(svc *service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SubmitProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("SubmitProject: bind error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidSubmission})
			return
		}

		project, err := svc.Submit(c.Request.Context(), req)
		if err != nil {
			respondError(c, "SubmitProject", err)
			return
		}

		log.Printf("Project submitted: id=%s", project.ID)
		c.JSON(http.StatusCreated, models.SubmitProjectResponse{
			Message: "Project submitted",
			ID:      project.ID,
		})
	}
}

func ListProjects(svc *service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ProjectFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
			return
		}

		projects, err := svc.List(c.Request.Context(), middleware.AdminClaims(c), filter)
		if err != nil {
			respondError(c, "ListProjects", err)
			return
		}

		c.JSON(http.StatusOK, projects)
	}
}

// DecideProject serves both the accept and reject routes.
func DecideProject(svc *service.ProjectService, decision models.Decision) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseProjectID(c)
		if !ok {
			return
		}

		project, err := svc.Decide(c.Request.Context(), middleware.AdminClaims(c), projectID, decision)
		if err != nil {
			respondError(c, "DecideProject", err)
			return
		}

		c.JSON(http.StatusOK, models.DecisionResponse{
			Message: "Project " + string(project.Status),
			Project: *project,
		})
	}
}

func ListNotifications(svc *service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseProjectID(c)
		if !ok {
			return
		}

		notifications, err := svc.Notifications(c.Request.Context(), middleware.AdminClaims(c), projectID)
		if err != nil {
			respondError(c, "ListNotifications", err)
			return
		}

		c.JSON(http.StatusOK, notifications)
	}
}

func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return uuid.Nil, false
	}
	return projectID, true
}
