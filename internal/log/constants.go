package log

const (
	KeyAppName            = "app"
	KeyTag                = "tag"
	KeyProcess            = "process"
	KeyRequestID          = "requestId"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyConfig             = "config"
	KeyDbURL              = "dbUrl"
	KeyCacheKey           = "cacheKey"
	KeyUserID             = "userId"
	KeyCartID             = "cartId"
	KeyCartItemID         = "cartItemId"
	KeyCart               = "cart"
	KeyCartItems          = "cartItems"
	KeyQuantity           = "quantity"
	KeyStock              = "stock"
	KeyPrice              = "price"
	KeyProductID          = "productId"
	KeyProductName        = "productName"
	KeyVariationID        = "productVariationId"
	KeyOrderID            = "orderId"
	KeyOrder              = "order"
	KeyOrderItems         = "orderItems"
	KeyOrderStatus        = "orderStatus"
	KeyPaymentMethod      = "paymentMethod"
	KeyTotalAmount        = "totalAmount"
	KeyTotalItems         = "totalItems"
	KeyToken              = "token"
)
