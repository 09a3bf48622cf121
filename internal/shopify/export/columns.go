package export

// Column names are fixed by the platform's export format and must be matched
// exactly.
const (
	ColHandle          = "Handle"
	ColTitle           = "Title"
	ColBodyHTML        = "Body (HTML)"
	ColVendor          = "Vendor"
	ColProductCategory = "Product Category"
	ColType            = "Type"
	ColTags            = "Tags"
	ColPublished       = "Published"
	ColStatus          = "Status"

	ColOption1Name  = "Option1 Name"
	ColOption1Value = "Option1 Value"
	ColOption2Name  = "Option2 Name"
	ColOption2Value = "Option2 Value"
	ColOption3Name  = "Option3 Name"
	ColOption3Value = "Option3 Value"

	ColVariantSKU       = "Variant SKU"
	ColVariantGrams     = "Variant Grams"
	ColVariantInventory = "Variant Inventory Qty"
	ColVariantPrice     = "Variant Price"
	ColVariantCompareAt = "Variant Compare At Price"
	ColVariantBarcode   = "Variant Barcode"
	ColVariantImage     = "Variant Image"
	ColCostPerItem      = "Cost per item"

	ColImageSrc      = "Image Src"
	ColImagePosition = "Image Position"
	ColImageAltText  = "Image Alt Text"
)

// Customer export columns.
const (
	ColCustFirstName  = "First Name"
	ColCustLastName   = "Last Name"
	ColCustEmail      = "Email"
	ColCustMarketing  = "Accepts Email Marketing"
	ColCustCompany    = "Company"
	ColCustAddress1   = "Address1"
	ColCustAddress2   = "Address2"
	ColCustCity       = "City"
	ColCustProvince   = "Province"
	ColCustCountry    = "Country"
	ColCustZip        = "Zip"
	ColCustPhone      = "Phone"
	ColCustTags       = "Tags"
	ColCustNote       = "Note"
)

// Order export columns. Line-item columns repeat one row per item; order
// level columns are populated only on the first row of each order.
const (
	ColOrderName        = "Name"
	ColOrderEmail       = "Email"
	ColOrderFinancial   = "Financial Status"
	ColOrderFulfillment = "Fulfillment Status"
	ColOrderCurrency    = "Currency"
	ColOrderSubtotal    = "Subtotal"
	ColOrderShipping    = "Shipping"
	ColOrderTaxes       = "Taxes"
	ColOrderTotal       = "Total"
	ColOrderDiscount    = "Discount Amount"
	ColOrderPaidAt      = "Paid at"
	ColOrderCancelledAt = "Cancelled at"
	ColOrderID          = "Id"

	ColLineitemName     = "Lineitem name"
	ColLineitemPrice    = "Lineitem price"
	ColLineitemQuantity = "Lineitem quantity"
	ColLineitemSKU      = "Lineitem sku"
)
