package constants

const (
	AppStorefront     = "storefront"
	AppCartService    = "storefront-cart"
	AppOrderService   = "storefront-order"
	AppProductService = "storefront-product"
	AudienceUser      = "audience-user"
)
