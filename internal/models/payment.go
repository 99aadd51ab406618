package models

// PaymentInitRequest - параметры инициализации платежа за подписку
type PaymentInitRequest struct {
	Plan    string `json:"plan"`    // id тарифного плана
	Gateway string `json:"gateway"` // выбранный платёжный шлюз
}

// Платёжные шлюзы, известные backend
const (
	GatewayStripe    = "stripe"
	GatewayPaystack  = "paystack"
	GatewayCoinbase  = "coinbase"
)

// PaymentInit представляет ответ на инициализацию платежа:
// клиент перенаправляет пользователя на CheckoutURL
type PaymentInit struct {
	PaymentID   string `json:"payment_id"`
	CheckoutURL string `json:"checkout_url"`
	Gateway     string `json:"gateway"`
}
