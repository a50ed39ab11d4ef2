package repository

import (
	"context"

	"shoppingCart/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateToken(ctx context.Context, id int64, token string) error
	UpdateRoleByEmail(ctx context.Context, email string, role models.Role) error
	UpsertRemote(ctx context.Context, u *models.User) (*models.User, error)
}

// ProductRepositoryI defines the local product cache.
type ProductRepositoryI interface {
	Upsert(ctx context.Context, p *models.Product) error
	UpsertMany(ctx context.Context, products []models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
}

// CartRepositoryI defines operations on the local cart.
type CartRepositoryI interface {
	Toggle(ctx context.Context, productID int64) (bool, error)
	Add(ctx context.Context, productID int64, qty int) error
	SetQuantity(ctx context.Context, productID int64, qty int) error
	Decrement(ctx context.Context, productID int64) (int, error)
	Remove(ctx context.Context, productID int64) error
	Get(ctx context.Context, productID int64) (*models.CartItem, error)
	Lines(ctx context.Context) ([]models.CartLine, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// BookmarkRepositoryI defines operations on bookmarks.
type BookmarkRepositoryI interface {
	Toggle(ctx context.Context, productID int64) (bool, error)
	Exists(ctx context.Context, productID int64) (bool, error)
	Products(ctx context.Context) ([]models.Product, error)
}

// OrderRepositoryI defines operations on Order entities.
type OrderRepositoryI interface {
	CreateFromCart(ctx context.Context, o *models.Order, pay *models.OrderPayment) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUserIDPage(ctx context.Context, userID int64, pageSize int, after OrderCursor) ([]models.Order, OrderCursor, error)
	CompareAndSetStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)
}

// CardRepositoryI defines operations on VirtualCard entities.
type CardRepositoryI interface {
	Create(ctx context.Context, c *models.VirtualCard) (*models.VirtualCard, error)
	GetByID(ctx context.Context, id int64) (*models.VirtualCard, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.VirtualCard, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

// LocationRepositoryI defines operations on saved addresses.
type LocationRepositoryI interface {
	Create(ctx context.Context, l *models.Location) (*models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.Location, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

// TodoRepositoryI defines operations on checklist groups and items.
type TodoRepositoryI interface {
	CreateGroup(ctx context.Context, title string) (*models.TodoGroup, error)
	GetGroup(ctx context.Context, id int64) (*models.TodoGroup, error)
	ListGroups(ctx context.Context) ([]models.TodoGroup, error)
	RenameGroup(ctx context.Context, id int64, title string) error
	DeleteGroup(ctx context.Context, id int64) error
	AddItem(ctx context.Context, groupID int64, title string) (*models.TodoItem, error)
	GetItem(ctx context.Context, id int64) (*models.TodoItem, error)
	ListItems(ctx context.Context, groupID int64) ([]models.TodoItem, error)
	ToggleItem(ctx context.Context, id int64) error
	DeleteItem(ctx context.Context, id int64) error
}

// BarcodeRepositoryI defines operations on the scan history.
type BarcodeRepositoryI interface {
	Create(ctx context.Context, it *models.BarcodeItem) (*models.BarcodeItem, error)
	LatestByBarcode(ctx context.Context, barcode string) (*models.BarcodeItem, error)
	List(ctx context.Context, limit int) ([]models.BarcodeItem, error)
	Delete(ctx context.Context, id int64) error
}

var (
	_ UserRepositoryI     = (*UserRepository)(nil)
	_ ProductRepositoryI  = (*ProductRepository)(nil)
	_ CartRepositoryI     = (*CartRepository)(nil)
	_ BookmarkRepositoryI = (*BookmarkRepository)(nil)
	_ OrderRepositoryI    = (*OrderRepository)(nil)
	_ CardRepositoryI     = (*CardRepository)(nil)
	_ LocationRepositoryI = (*LocationRepository)(nil)
	_ TodoRepositoryI     = (*TodoRepository)(nil)
	_ BarcodeRepositoryI  = (*BarcodeRepository)(nil)
)
