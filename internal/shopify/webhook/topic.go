package webhook

// Topic is the closed set of event topics this service understands. Keeping
// it an enum makes every dispatch switch exhaustively checkable; topics the
// platform adds later fall into TopicUnknown and are acknowledged untouched.
type Topic int

const (
	TopicUnknown Topic = iota
	TopicProductsCreate
	TopicProductsUpdate
	TopicProductsDelete
	TopicCustomersCreate
	TopicCustomersUpdate
	TopicOrdersCreate
	TopicOrdersUpdated
)

var topicNames = map[Topic]string{
	TopicUnknown:         "unknown",
	TopicProductsCreate:  "products/create",
	TopicProductsUpdate:  "products/update",
	TopicProductsDelete:  "products/delete",
	TopicCustomersCreate: "customers/create",
	TopicCustomersUpdate: "customers/update",
	TopicOrdersCreate:    "orders/create",
	TopicOrdersUpdated:   "orders/updated",
}

func ParseTopic(raw string) Topic {
	switch raw {
	case "products/create":
		return TopicProductsCreate
	case "products/update":
		return TopicProductsUpdate
	case "products/delete":
		return TopicProductsDelete
	case "customers/create":
		return TopicCustomersCreate
	case "customers/update":
		return TopicCustomersUpdate
	case "orders/create":
		return TopicOrdersCreate
	case "orders/updated":
		return TopicOrdersUpdated
	default:
		return TopicUnknown
	}
}

func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	return "unknown"
}
