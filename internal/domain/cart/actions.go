package cart

// Action is a discrete state change dispatched to the reducer
type Action interface {
	// Name identifies the action in logs
	Name() string
}

// AddToCart merges an item into the cart by its line key
type AddToCart struct{ Item Item }

// RemoveFromCart drops the line with the given key
type RemoveFromCart struct{ Key LineKey }

// UpdateQuantity sets the quantity of a line; zero or less removes it
type UpdateQuantity struct {
	Key      LineKey
	Quantity int
}

// ClearCart empties the cart lines only
type ClearCart struct{}

// RemoveOrdered subtracts submitted lines from the cart by line key. Lines
// added or grown after submission keep the difference.
type RemoveOrdered struct{ Lines []Item }

// ToggleCart flips the cart drawer flag
type ToggleCart struct{}

// SetCartOpen sets the cart drawer flag
type SetCartOpen struct{ Open bool }

// AddToWishlist saves a product unless it is already saved
type AddToWishlist struct{ Item WishlistItem }

// RemoveFromWishlist drops a saved product
type RemoveFromWishlist struct{ ID string }

// UpdateCheckoutForm shallow-merges a patch into the checkout form
type UpdateCheckoutForm struct{ Patch FormPatch }

// Hydrate loads a persisted snapshot into the state
type Hydrate struct{ Snapshot Snapshot }

func (AddToCart) Name() string          { return "ADD_TO_CART" }
func (RemoveFromCart) Name() string     { return "REMOVE_FROM_CART" }
func (UpdateQuantity) Name() string     { return "UPDATE_QUANTITY" }
func (ClearCart) Name() string          { return "CLEAR_CART" }
func (RemoveOrdered) Name() string      { return "REMOVE_ORDERED" }
func (ToggleCart) Name() string         { return "TOGGLE_CART" }
func (SetCartOpen) Name() string        { return "SET_CART_OPEN" }
func (AddToWishlist) Name() string      { return "ADD_TO_WISHLIST" }
func (RemoveFromWishlist) Name() string { return "REMOVE_FROM_WISHLIST" }
func (UpdateCheckoutForm) Name() string { return "UPDATE_CHECKOUT_FORM" }
func (Hydrate) Name() string            { return "HYDRATE_STATE" }
