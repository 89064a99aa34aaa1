package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/albt6x/rent-a-camera/app"
)

// StaffController serves the operational dashboards: daily numbers and
// the monthly pickup export.
type StaffController struct{ *Srv }

func NewStaffController(s *Srv) *StaffController { return &StaffController{Srv: s} }

func (sc *StaffController) DailyReport(c *gin.Context) {
	rep, err := sc.Repo.BuildDailyReport(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	recent, err := sc.Repo.RecentRentals(c.Request.Context(), 8)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"report": rep, "recent": recent})
}

// ExportMonthCSV streams all rentals picking up in ?year=&month= as CSV.
func (sc *StaffController) ExportMonthCSV(c *gin.Context) {
	now := time.Now().UTC()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid month"})
		return
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rentals, err := sc.Repo.ListRentalsByPickupRange(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("rentals_%04d-%02d.csv", year, month)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"order", "borrower", "email", "pickup_date", "order_status", "payment_status", "total_price"})
	for _, rt := range rentals {
		_ = w.Write([]string{
			rt.PublicID,
			rt.Borrower.Username,
			rt.Borrower.Email,
			rt.PickupDate.Format("2006-01-02"),
			string(rt.OrderStatus),
			string(rt.PaymentStatus),
			rt.TotalPrice.StringFixed(2),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		sc.Log.Error("csv export failed", "err", err)
	}
}
