package routes

import (
	"net/http"
	_ "net/http/pprof"

	"travauth/auth"
	"travauth/formpdf"
	"travauth/formws"
	"travauth/middleware"
	"travauth/ratelim"
	"travauth/receipts"
	"travauth/signature"
	"travauth/travelform"
	"travauth/utils"
	"travauth/verify"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/receiptpic/*filepath", http.Dir("static/receiptpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
}

func AddTravelFormRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, hub *formws.Hub) {
	// travelers submit and track without an account
	router.POST("/api/travel/forms", rl.Limit(travelform.SubmitTravelForm))
	router.POST("/api/travel/preview", rl.Limit(travelform.PreviewTravelForm))
	router.POST("/api/travel/verify", rl.Limit(verify.VerifyTravelDocument))
	router.GET("/api/travel/signature-preview", rl.Limit(signature.PreviewSignature))
	router.GET("/api/travel/form/:formid", rl.Limit(travelform.GetTravelForm))
	router.GET("/api/travel/form/:formid/review", rl.Limit(travelform.ReviewTravelForm))
	router.GET("/api/travel/form/:formid/signature", rl.Limit(signature.GetTravelFormSignature))

	// approval is the traveler's review checkbox, not a staff action;
	// a token is optional so a signed-in actor still lands in the event
	router.POST("/api/travel/form/:formid/approve", rl.Limit(middleware.OptionalAuth(travelform.ApproveTravelForm)))
	router.GET("/api/travel/form/:formid/document", rl.Limit(middleware.OptionalAuth(formpdf.DownloadTravelDocument)))

	// staff actions
	router.GET("/api/travel/forms", middleware.RequireRole(travelform.ListTravelForms, "assistant", "lead"))
	router.POST("/api/travel/form/:formid/endorse", middleware.RequireRole(travelform.EndorseTravelForm, "assistant", "lead"))
	router.DELETE("/api/travel/form/:formid", middleware.RequireRole(travelform.DeleteTravelForm, "assistant", "lead"))

	// receipts ride along with the form
	router.POST("/api/travel/form/:formid/receipts", rl.Limit(receipts.UploadReceipt))
	router.GET("/api/travel/form/:formid/receipts", rl.Limit(receipts.ListReceipts))
	router.DELETE("/api/travel/form/:formid/receipts/:receiptid", middleware.RequireRole(receipts.DeleteReceipt, "assistant", "lead"))

	router.GET("/ws/travel/:formid", formws.WatchTravelForm(hub))
}

func AddUtilityRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/csrf", rl.Limit(utils.CSRF))
}
