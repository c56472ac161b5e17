package handler

import (
	"net/http"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/service"
	"github.com/segyhp/fundease/pkg/response"
)

type MemberHandler struct {
	members *service.MemberService
}

func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// UpdateMemberStatus handles PUT /api/v1/members/{memberId}/status
func (h *MemberHandler) UpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r, "memberId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var req domain.UpdateMemberStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	member, err := h.members.UpdateMemberStatus(r.Context(), memberID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, member)
}

// ListNotifications handles GET /api/v1/users/{userId}/notifications
func (h *MemberHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.members.ListNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, notifications)
}
