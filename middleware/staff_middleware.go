package middleware

import (
	authutils "shift-tools-backend/lib/utils/auth-utils"
	"shift-tools-backend/models"
	apimodels "shift-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetUserBranch(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if branch, exist := claims["branch"]; exist {
		if stringBranch, ok := branch.(string); ok {
			return stringBranch
		}
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func IsManager(ctx *fiber.Ctx) bool {
	return GetUserRole(ctx).IsManager()
}

func ManagerRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !IsManager(ctx) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция доступна только менеджеру филиала"))
		}
		return ctx.Next()
	}
}
