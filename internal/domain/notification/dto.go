package notification

type ListQuery struct {
	Limit      int  `form:"limit"`
	UnreadOnly bool `form:"unread_only"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}
