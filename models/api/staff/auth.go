package staffapimodels

import "github.com/pkg/errors"

type LoginData struct {
	Email    string `json:"email"`    // Почта
	Password string `json:"password"` // Пароль
}

func (d LoginData) Validate() error {
	if d.Email == "" || d.Password == "" {
		return errors.New("не указаны почта или пароль")
	}
	return nil
}

type TokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
