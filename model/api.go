package model

type ErrorResponse struct {
	Error string `json:"error"`
	Data  any    `json:"data,omitempty"`
}

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

type StatsResponse struct {
	Orders        int64  `json:"orders"`
	PendingOrders int64  `json:"pendingOrders"`
	RevenueCents  int64  `json:"revenueCents"`
	Revenue       string `json:"revenue"`
}

type AdminCredential struct {
	Salt string `json:"salt"`
	Hash string `json:"hash"`
}
