package cart

// Reduce returns the state that results from applying action to state.
// The input state is never modified.
func Reduce(state State, action Action) State {
	next := state.Clone()

	switch a := action.(type) {
	case AddToCart:
		next.Items = addItem(next.Items, a.Item)
	case RemoveFromCart:
		next.Items = removeItem(next.Items, a.Key)
	case UpdateQuantity:
		next.Items = setQuantity(next.Items, a.Key, a.Quantity)
	case ClearCart:
		next.Items = []Item{}
	case RemoveOrdered:
		next.Items = subtractLines(next.Items, a.Lines)
	case ToggleCart:
		next.IsCartOpen = !next.IsCartOpen
	case SetCartOpen:
		next.IsCartOpen = a.Open
	case AddToWishlist:
		if !next.InWishlist(a.Item.ID) {
			next.Wishlist = append(next.Wishlist, a.Item)
		}
	case RemoveFromWishlist:
		next.Wishlist = removeWishlist(next.Wishlist, a.ID)
	case UpdateCheckoutForm:
		next.CheckoutForm = mergeForm(next.CheckoutForm, a.Patch)
	case Hydrate:
		next.Items = sanitizeItems(a.Snapshot.Items)
		next.Wishlist = append([]WishlistItem{}, a.Snapshot.Wishlist...)
		next.IsCartOpen = false
	}

	return next
}

func addItem(items []Item, item Item) []Item {
	key := item.Key()
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity += item.Quantity
			if items[i].Quantity <= 0 {
				return append(items[:i], items[i+1:]...)
			}
			return items
		}
	}
	if item.Quantity < 1 {
		return items
	}
	return append(items, item)
}

func removeItem(items []Item, key LineKey) []Item {
	out := items[:0]
	for _, item := range items {
		if item.Key() != key {
			out = append(out, item)
		}
	}
	return out
}

func setQuantity(items []Item, key LineKey, quantity int) []Item {
	if quantity <= 0 {
		return removeItem(items, key)
	}
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity = quantity
		}
	}
	return items
}

func subtractLines(items []Item, ordered []Item) []Item {
	submitted := make(map[LineKey]int, len(ordered))
	for _, line := range ordered {
		submitted[line.Key()] += line.Quantity
	}
	out := items[:0]
	for _, item := range items {
		item.Quantity -= submitted[item.Key()]
		if item.Quantity >= 1 {
			out = append(out, item)
		}
	}
	return out
}

func removeWishlist(items []WishlistItem, id string) []WishlistItem {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func mergeForm(form CheckoutForm, patch FormPatch) CheckoutForm {
	if patch.Name != nil {
		form.Name = *patch.Name
	}
	if patch.Email != nil {
		form.Email = *patch.Email
	}
	if patch.Address != nil {
		form.Address = *patch.Address
	}
	if patch.Phone != nil {
		form.Phone = *patch.Phone
	}
	return form
}

// Persisted lines with a non-positive quantity violate the cart invariant and are dropped
func sanitizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity >= 1 {
			out = append(out, item)
		}
	}
	return out
}
