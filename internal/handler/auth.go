package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkospace/internal/model"
	"github.com/iliyamo/parkospace/internal/otp"
	"github.com/iliyamo/parkospace/internal/repository"
	"github.com/iliyamo/parkospace/internal/utils"
)

// AuthHandler logs owners in with an emailed one-time code. A verified
// code registers the phone on first use and returns an access token.
type AuthHandler struct {
	JWTSecret    string
	AccessTTLMin int
	OTP          *otp.Client
	Owners       *repository.OwnerRepo
}

func NewAuthHandler(secret string, ttlMin int, o *otp.Client, owners *repository.OwnerRepo) *AuthHandler {
	return &AuthHandler{JWTSecret: secret, AccessTTLMin: ttlMin, OTP: o, Owners: owners}
}

type sendOTPReq struct {
	Email string `json:"email"`
}

type verifyOwnerReq struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

// SendOTP handles POST /api/auth/send-otp.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email is required for OTP"})
	}
	if err := h.OTP.Send(c.Request().Context(), strings.TrimSpace(req.Email)); err != nil {
		log.Printf("auth: send otp failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send OTP. Check email."})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "OTP sent to email"})
}

// VerifyOwner handles POST /api/auth/verify-owner. A new phone is
// registered with the given name. A known phone is only accepted with the
// email it was registered with, or claimed by the first verified email
// when none is stored.
func (h *AuthHandler) VerifyOwner(c echo.Context) error {
	var req verifyOwnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Missing Email or OTP"})
	}
	if req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Missing phone"})
	}

	valid, err := h.OTP.Verify(c.Request().Context(), req.Email, strings.TrimSpace(req.Code))
	if err != nil {
		log.Printf("auth: verify otp failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Verification Failed"})
	}
	if !valid {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid OTP Code"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	owner, err := h.Owners.Get(ctx, req.Phone)
	switch {
	case errors.Is(err, repository.ErrOwnerNotFound):
		owner = &model.Owner{Phone: req.Phone, Name: strings.TrimSpace(req.Name)}
	case err != nil:
		log.Printf("auth: load owner failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Verification Failed"})
	case owner.Email != "" && !strings.EqualFold(owner.Email, req.Email):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Phone is registered with another email"})
	}
	owner.Email = req.Email
	if err := h.Owners.Save(ctx, owner); err != nil {
		log.Printf("auth: save owner failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Verification Failed"})
	}

	access, err := utils.NewAccessToken(h.JWTSecret, owner.Phone, model.RoleOwner, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": owner, "access": access})
}
