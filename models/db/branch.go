package dbmodels

type Branch struct {
	BaseModel
	Name    string `gorm:"type:varchar(255)"`
	Address string `gorm:"type:varchar(500)"`
	Phone   string `gorm:"type:varchar(50)"`
	IsMain  bool
}
