package model

import "time"

const (
	ActivityLogin  = "login"
	ActivityLogout = "logout"
)

// LoginActivity is an audit record of a login or logout attempt
type LoginActivity struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"userId"`
	Action    string    `json:"action"` // 'login' or 'logout'
	Success   bool      `json:"success"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStats aggregates directory-wide counts for the admin dashboard
type UserStats struct {
	TotalUsers    int `json:"totalUsers"`
	AdminCount    int `json:"adminCount"`
	UserCount     int `json:"userCount"`
	ActiveCount   int `json:"activeCount"`
	InactiveCount int `json:"inactiveCount"`
	RecentLogins  int `json:"recentLogins"` // successful logins in the last 24h
}
