package enum

// ── Order state machine ──

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

const (
	OrderTypeDineIn  = "dine-in"
	OrderTypeTakeout = "takeout"
)

// ── Static user roles ──

const (
	RoleDining     = "dining"
	RoleKitchen    = "kitchen"
	RoleManagement = "management"
)

// ── Navigation surfaces a role may open ──

const (
	SurfaceOrders    = "orders"
	SurfaceKitchen   = "kitchen"
	SurfaceDashboard = "dashboard"
)

// ── Menu categories (display order) ──

const (
	CategoryAppetizers = "appetizers"
	CategoryMains      = "mains"
	CategorySides      = "sides"
	CategoryDesserts   = "desserts"
	CategoryDrinks     = "drinks"
	CategoryAll        = "all"
)
