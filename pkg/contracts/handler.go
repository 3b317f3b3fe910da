package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by the booking, availability, inventory and health
// handlers; pkg/app mounts each one on the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
