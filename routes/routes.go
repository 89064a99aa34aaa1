package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/controllers"
	"github.com/albt6x/rent-a-camera/models"
)

// RegisterRoutes is the single place routes are declared; nothing is
// mounted from init() or controller constructors.
func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	accountCtl := controllers.NewAccountController(s)
	catalogCtl := controllers.NewCatalogController(s)
	cartCtl := controllers.NewCartController(s)
	bookingCtl := controllers.NewBookingController(s)
	reservationCtl := controllers.NewReservationController(s)
	staffCtl := controllers.NewStaffController(s)
	userCtl := controllers.NewUserController(s)

	// shared middleware
	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)
	reviewMW := app.Can(models.Role.CanReviewOrders)
	catalogMW := app.Can(models.Role.CanManageCatalog)
	usersMW := app.Can(models.Role.CanManageUsers)
	reportsMW := app.Can(models.Role.CanViewReports)
	proofsMW := app.Can(models.Role.CanViewPaymentProofs)

	r.GET("/healthz", func(c *app.Ctx) {
		c.JSON(http.StatusOK, app.H{"ok": true})
	})

	// ------------------------------
	// Auth (public + session-bound)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.WhoAmI)
	}

	// ------------------------------
	// Account profile
	// ------------------------------
	account := r.Group("/api/account", authMW, seenMW)
	{
		account.PUT("", accountCtl.UpdateProfile)
	}
	r.GET("/api/profile-pics/:name", accountCtl.ProfileImage)

	// ------------------------------
	// Storefront catalog (public)
	// ------------------------------
	items := r.Group("/api/items")
	{
		items.GET("", catalogCtl.ListItems) // ?q=&categoryId=&page=&size=
		items.GET("/:id", catalogCtl.GetItem)
		items.GET("/images/:name", catalogCtl.ItemImage)
	}
	r.GET("/api/categories", catalogCtl.ListCategories)

	// ------------------------------
	// Catalog management (admin)
	// ------------------------------
	catalog := r.Group("/api/admin/catalog", authMW, catalogMW)
	{
		catalog.POST("/categories", catalogCtl.CreateCategory)
		catalog.DELETE("/categories/:id", catalogCtl.DeleteCategory)
		catalog.POST("/items", catalogCtl.CreateItem)
		catalog.PUT("/items/:id", catalogCtl.UpdateItem)
		catalog.DELETE("/items/:id", catalogCtl.DeleteItem)
	}

	// ------------------------------
	// Cart + checkout (borrower)
	// ------------------------------
	cart := r.Group("/api/cart", authMW, seenMW)
	{
		cart.GET("", cartCtl.GetCart)
		cart.POST("/lines", cartCtl.AddLine)
		cart.DELETE("/lines/:key", cartCtl.RemoveLine)
		cart.POST("/checkout", cartCtl.Checkout)
	}

	// ------------------------------
	// Bookings (borrower's own rentals)
	// ------------------------------
	bookings := r.Group("/api/bookings", authMW, seenMW)
	{
		bookings.GET("", bookingCtl.ListMine) // ?status=&page=&size=
		bookings.GET("/:id", bookingCtl.GetMine)
		bookings.POST("/:id/proof", bookingCtl.UploadProof)
	}

	// ------------------------------
	// Reservation workflow (staff/admin)
	// ------------------------------
	reservations := r.Group("/api/reservations", authMW, reviewMW)
	{
		reservations.GET("", reservationCtl.List) // ?status=&page=&size=
		reservations.GET("/:id", reservationCtl.Get)
		reservations.POST("/:id/approve", reservationCtl.Approve)
		reservations.POST("/:id/reject", reservationCtl.Reject)
		reservations.POST("/:id/confirm-payment", reservationCtl.ConfirmPayment)
		reservations.POST("/:id/return", reservationCtl.MarkReturned)

		reservations.GET("/:id/proof", proofsMW, reservationCtl.ViewProof)
	}

	// ------------------------------
	// Reports (staff/admin)
	// ------------------------------
	reports := r.Group("/api/reports", authMW, reportsMW)
	{
		reports.GET("/daily", staffCtl.DailyReport)
		reports.GET("/export", staffCtl.ExportMonthCSV) // ?year=&month=
	}

	// ------------------------------
	// User management (admin)
	// ------------------------------
	users := r.Group("/api/users", authMW, usersMW)
	{
		users.GET("", userCtl.List) // ?q=&page=&size=
		users.POST("", userCtl.CreateStaff)
		users.PUT("/:id", userCtl.Update)
		users.DELETE("/:id", userCtl.Delete)
	}
}
