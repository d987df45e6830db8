package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/store"
	"github.com/newsline-app/newsline/utils"
)

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func register(c *gin.Context, role string) {
	var input struct {
		credentials
		SecretKey string `json:"secretKey"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if role == models.RoleAdmin && input.SecretKey != adminSecret {
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid secret key"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := models.User{Email: input.Email, Password: hashedPassword, Role: role}
	if err := userStore.Create(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if role == models.RoleAdmin {
		c.JSON(http.StatusOK, gin.H{"message": "Admin registered successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

func Register(c *gin.Context) {
	register(c, models.RoleUser)
}

func RegisterAdmin(c *gin.Context) {
	register(c, models.RoleAdmin)
}

func SignIn(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userStore.FindByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !utils.CheckPassword(input.Password, user.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "email": user.Email, "role": user.Role})
}
