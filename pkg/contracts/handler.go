package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every feature handler so the application can
// assemble routes uniformly.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
