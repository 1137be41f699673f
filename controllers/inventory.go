package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mechanicshop-backend/services"
	"mechanicshop-backend/utils"
)

type InventoryController struct {
	Inventory *services.InventoryService
}

func (ctl *InventoryController) Create(c *gin.Context) {
	var input services.CreateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	part, err := ctl.Inventory.Create(c.Request.Context(), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (ctl *InventoryController) List(c *gin.Context) {
	parts, err := ctl.Inventory.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (ctl *InventoryController) Get(c *gin.Context) {
	part, err := ctl.Inventory.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (ctl *InventoryController) Update(c *gin.Context) {
	var input services.UpdateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	part, err := ctl.Inventory.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (ctl *InventoryController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Inventory.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory part " + id + " deleted successfully"})
}
