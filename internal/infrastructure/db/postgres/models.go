package postgres

import "time"

type roleModel struct {
	ID        int64  `gorm:"primaryKey"`
	Authority string `gorm:"size:32;not null;uniqueIndex"`
}

func (roleModel) TableName() string { return "tb_role" }

type userModel struct {
	ID        int64       `gorm:"primaryKey"`
	Name      string      `gorm:"not null"`
	Email     string      `gorm:"not null;uniqueIndex"`
	Phone     string
	BirthDate *time.Time  `gorm:"type:date"`
	Password  string      `gorm:"not null"`
	Roles     []roleModel `gorm:"many2many:tb_user_role;joinForeignKey:UserID;joinReferences:RoleID"`
}

func (userModel) TableName() string { return "tb_user" }

type categoryModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (categoryModel) TableName() string { return "tb_category" }

type productModel struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Price       float64         `gorm:"not null"`
	ImgURL      string
	Categories  []categoryModel `gorm:"many2many:tb_product_category;joinForeignKey:ProductID;joinReferences:CategoryID"`
}

func (productModel) TableName() string { return "tb_product" }

type orderModel struct {
	ID       int64            `gorm:"primaryKey"`
	Moment   time.Time        `gorm:"not null"`
	Status   string           `gorm:"size:32;not null"`
	ClientID int64            `gorm:"not null;index"`
	Client   userModel        `gorm:"foreignKey:ClientID"`
	Items    []orderItemModel `gorm:"foreignKey:OrderID"`
}

func (orderModel) TableName() string { return "tb_order" }

// orderItemModel is keyed by (order, product), so an order holds each
// product at most once.
type orderItemModel struct {
	OrderID   int64        `gorm:"primaryKey;autoIncrement:false"`
	ProductID int64        `gorm:"primaryKey;autoIncrement:false"`
	Product   productModel `gorm:"foreignKey:ProductID"`
	Quantity  int          `gorm:"not null"`
	Price     float64      `gorm:"not null"`
}

func (orderItemModel) TableName() string { return "tb_order_item" }
