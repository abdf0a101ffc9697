package routes

import (
	"travauth/formws"
	"travauth/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *formws.Hub) {
	AddAuthRoutes(router, rateLimiter)
	AddTravelFormRoutes(router, rateLimiter, hub)
	AddStaticRoutes(router)
	AddUtilityRoutes(router, rateLimiter)
}
