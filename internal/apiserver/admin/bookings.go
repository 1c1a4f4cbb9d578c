package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"
)

// ListBookings 后台预约列表
// GET /api/admin/bookings?q=&page=&limit=
// 关键字匹配 brand_name/brand_email，每条内嵌模特摘要
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := pageFilter(r)
	bookings, total, err := h.bookings.SearchBookings(r.Context(), filter)
	if err != nil {
		writeServerError(w, "list bookings", err)
		return
	}
	views, err := h.attachModels(r.Context(), bookings)
	if err != nil {
		writeServerError(w, "resolve booking models", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"bookings": views,
		"total":    total,
	})
}

// updateBookingRequest 预约更新请求，nil 字段不修改
type updateBookingRequest struct {
	Status   *model.BookingStatus `json:"status"`
	Archived *bool                `json:"archived"`
}

// UpdateBooking 更新预约状态或归档标记
// PUT /api/admin/bookings/{id}
// 状态只接受枚举值；总价创建时冻结，这里永不改动
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == nil && req.Archived == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid booking status")
		return
	}

	booking, err := h.bookings.UpdateBooking(r.Context(), r.PathValue("id"), storage.BookingUpdate{
		Status:   req.Status,
		Archived: req.Archived,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Booking not found")
			return
		}
		writeServerError(w, "update booking", err)
		return
	}

	log.Printf("[admin] booking updated: %s status=%s archived=%v", booking.ID, booking.Status, booking.Archived)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"booking": booking,
	})
}
