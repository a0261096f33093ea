package staffapimodels

import (
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
)

type BranchData struct {
	Name    string `json:"name"`    // Название
	Address string `json:"address"` // Адрес
	Phone   string `json:"phone"`   // Телефон
	IsMain  bool   `json:"is_main"` // Головной филиал
}

func (d BranchData) Validate() error {
	if d.Name == "" {
		return errors.New("не указано название филиала")
	}
	return nil
}

type BranchView struct {
	BranchData
	ID string `json:"id"`
}

func BranchConvert(rec dbmodels.Branch) BranchView {
	return BranchView{
		BranchData: BranchData{
			Name:    rec.Name,
			Address: rec.Address,
			Phone:   rec.Phone,
			IsMain:  rec.IsMain,
		},
		ID: rec.ID,
	}
}
