package model

type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  OperatorView `json:"user"`
}

type OperatorView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
