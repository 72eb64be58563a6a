package handler

import (
	"errors"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	service *usecase.ClientsService
}

func NewClientHandler(service *usecase.ClientsService) *ClientHandler {
	return &ClientHandler{service: service}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var client model.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.CreateClient(c.Request.Context(), &client); err != nil {
		respondClientError(c, err)
		return
	}
	utils.Created(c, client)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.service.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondClientError(c, err)
		return
	}
	utils.Success(c, client)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	if search := c.Query("search"); search != "" {
		clients, err := h.service.SearchClients(c.Request.Context(), search)
		if err != nil {
			respondClientError(c, err)
			return
		}
		utils.Success(c, clients)
		return
	}

	clients, err := h.service.GetAllClients(c.Request.Context())
	if err != nil {
		respondClientError(c, err)
		return
	}
	utils.Success(c, clients)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var updates model.Client
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.service.UpdateClient(c.Request.Context(), c.Param("id"), &updates)
	if err != nil {
		respondClientError(c, err)
		return
	}
	utils.Success(c, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.service.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondClientError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Client deleted"})
}

func respondClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrClientNotFound):
		utils.NotFound(c, err.Error())
	case isValidationMessage(err):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, err.Error())
	}
}
