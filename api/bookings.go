package api

import (
	"net/http"
	"strconv"
	"time"

	"ynovair/internal/domain"
	"ynovair/internal/pricing"
	"ynovair/internal/repository"
	"ynovair/internal/service/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	DateOfBirth    string `json:"date_of_birth"`
}

type baggageRequest struct {
	WeightKg    float64 `json:"weight_kg"`
	Description string  `json:"description"`
}

type createBookingRequest struct {
	FlightID           int64            `json:"flight_id"`
	UserID             *int64           `json:"user_id"`
	NumberOfPassengers int              `json:"number_of_passengers"`
	Passenger          passengerRequest `json:"passenger"`
	Baggage            *baggageRequest  `json:"baggage"`
}

type baggageResponse struct {
	ID          int64   `json:"id"`
	WeightKg    float64 `json:"weight_kg"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

type bookingResponse struct {
	ID                 int64             `json:"id"`
	Reference          string            `json:"reference"`
	FlightID           int64             `json:"flight_id"`
	PassengerID        int64             `json:"passenger_id"`
	UserID             *int64            `json:"user_id,omitempty"`
	NumberOfPassengers int               `json:"number_of_passengers"`
	TotalPriceCents    int64             `json:"total_price_cents"`
	Status             string            `json:"status"`
	SeatNumber         *string           `json:"seat_number,omitempty"`
	CreatedAt          string            `json:"created_at"`
	Baggage            []baggageResponse `json:"baggage,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/checkin", h.checkIn)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		FlightID:   req.FlightID,
		UserID:     req.UserID,
		Passengers: req.NumberOfPassengers,
		Passenger: booking.PassengerInput{
			FirstName:      req.Passenger.FirstName,
			LastName:       req.Passenger.LastName,
			Email:          req.Passenger.Email,
			Phone:          req.Passenger.Phone,
			PassportNumber: req.Passenger.PassportNumber,
		},
	}
	if req.Passenger.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.Passenger.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
			return
		}
		input.Passenger.DateOfBirth = &dob
	}
	if req.Baggage != nil {
		input.Baggage = &booking.BaggageInput{
			WeightGrams: pricing.Grams(req.Baggage.WeightKg),
			Description: req.Baggage.Description,
		}
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created, nil))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	details, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(&details.Booking, details.Baggage))
}

func (h *BookingHandler) list(c *gin.Context) {
	var filter repository.BookingFilter
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = &userID
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.BookingStatus(raw)
		filter.Status = &status
	}

	bookings, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i], nil))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	updated, err := h.service.CheckIn(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated, nil))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled, nil))
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}

func toBookingResponse(b *domain.Booking, baggage []domain.Baggage) bookingResponse {
	resp := bookingResponse{
		ID:                 b.ID,
		Reference:          b.Reference,
		FlightID:           b.FlightID,
		PassengerID:        b.PassengerID,
		UserID:             b.UserID,
		NumberOfPassengers: b.NumberOfPassengers,
		TotalPriceCents:    b.TotalPriceCents,
		Status:             string(b.Status),
		SeatNumber:         b.SeatNumber,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
	}
	for _, bag := range baggage {
		resp.Baggage = append(resp.Baggage, baggageResponse{
			ID:          bag.ID,
			WeightKg:    pricing.Kg(bag.WeightGrams),
			Description: bag.Description,
			Status:      string(bag.Status),
		})
	}
	return resp
}
