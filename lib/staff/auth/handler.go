package authhandler

import (
	"shift-tools-backend/db"
	staffstore "shift-tools-backend/lib/staff/store"
	authutils "shift-tools-backend/lib/utils/auth-utils"
	"shift-tools-backend/models"
	staffapimodels "shift-tools-backend/models/api/staff"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Provider interface {
	Login(data staffapimodels.LoginData) (*staffapimodels.TokenView, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store: staffstore.NewInstance(db.DB),
	}
}

type impl struct {
	store staffstore.Provider
}

func (i impl) Login(data staffapimodels.LoginData) (*staffapimodels.TokenView, error) {
	if err := data.Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	rec, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return nil, models.NewNotEligibleError("неверные почта или пароль")
	}
	if err = bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(data.Password)); err != nil {
		return nil, models.NewNotEligibleError("неверные почта или пароль")
	}
	if rec.Status != models.UserWorkingStatus {
		return nil, models.NewNotEligibleError("доступ закрыт")
	}
	accessToken, err := authutils.GetToken(rec.ID, rec.GetFullName(), rec.BranchID, rec.Role)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования токена")
	}
	refreshToken, err := authutils.GetRefreshToken(rec.ID, rec.GetFullName())
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования токена")
	}
	return &staffapimodels.TokenView{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
