package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
)

// AggregatedProduct is one reconstructed product plus the raw category
// breadcrumb it referenced. The breadcrumb is resolved to a category ID by
// the import runner, after the tree has been ensured.
type AggregatedProduct struct {
	catalogdomain.ProductInput
	CategoryPath string
}

// AggregateSummary tallies one aggregation pass. Entities counts distinct
// aggregated records regardless of entity kind.
type AggregateSummary struct {
	Rows              int
	Entities          int
	Variants          int
	Images            int
	Metafields        int
	DuplicateVariants int
	DuplicateImages   int
	SkippedRows       int
}

type metafieldColumn struct {
	column    string
	namespace string
	key       string
}

type productAccumulator struct {
	product       AggregatedProduct
	publishedSeen bool
	statusSeen    bool
	variantKeys   map[string]struct{}
	imageSrcs     map[string]struct{}
	metafieldKeys map[string]struct{}
}

// BuildProducts groups raw rows by handle, reconstructing the one-to-many
// relationships the flat format lost. Duplicate policy is keep-first
// throughout: the export repeats a variant row for each of its own images,
// so later sightings of an already-seen variant or image are noise.
func BuildProducts(export *Export) ([]AggregatedProduct, AggregateSummary) {
	summary := AggregateSummary{Rows: len(export.Rows)}
	metafieldColumns := detectMetafieldColumns(export.Columns)

	byHandle := make(map[string]*productAccumulator)
	order := make([]string, 0)

	for _, row := range export.Rows {
		handle := strings.TrimSpace(row.Get(ColHandle))
		if handle == "" {
			summary.SkippedRows++
			continue
		}

		acc, ok := byHandle[handle]
		if !ok {
			acc = &productAccumulator{
				product: AggregatedProduct{
					ProductInput: catalogdomain.ProductInput{Handle: handle},
				},
				variantKeys:   make(map[string]struct{}),
				imageSrcs:     make(map[string]struct{}),
				metafieldKeys: make(map[string]struct{}),
			}
			byHandle[handle] = acc
			order = append(order, handle)
		}

		mergeProductFields(acc, row)
		accumulateVariant(acc, row, &summary)
		accumulateImage(acc, row, &summary)
		accumulateMetafields(acc, row, metafieldColumns, &summary)
	}

	products := make([]AggregatedProduct, 0, len(order))
	for _, handle := range order {
		acc := byHandle[handle]
		if !acc.statusSeen {
			acc.product.Status = catalogdomain.StatusActive
		}
		// Ascending position defines display order; the stable sort keeps
		// first-seen order for ties.
		sort.SliceStable(acc.product.Images, func(i, j int) bool {
			return acc.product.Images[i].Position < acc.product.Images[j].Position
		})
		products = append(products, acc.product)
	}
	summary.Entities = len(products)
	return products, summary
}

// mergeProductFields fills product-level fields from whichever row carries
// them. Exports leave these columns blank on continuation rows, and nothing
// guarantees the titled row comes first, so the first non-empty sighting of
// each field wins regardless of row order.
func mergeProductFields(acc *productAccumulator, row RawRow) {
	p := &acc.product
	if p.Title == "" {
		p.Title = strings.TrimSpace(row.Get(ColTitle))
	}
	if p.BodyHTML == "" {
		p.BodyHTML = row.Get(ColBodyHTML)
	}
	if p.Vendor == "" {
		p.Vendor = strings.TrimSpace(row.Get(ColVendor))
	}
	if p.ProductType == "" {
		p.ProductType = strings.TrimSpace(row.Get(ColType))
	}
	if len(p.Tags) == 0 {
		p.Tags = SplitTags(row.Get(ColTags))
	}
	if p.CategoryPath == "" {
		p.CategoryPath = strings.TrimSpace(row.Get(ColProductCategory))
	}
	if !acc.publishedSeen {
		if raw := strings.TrimSpace(row.Get(ColPublished)); raw != "" {
			p.Published = parseBool(raw)
			acc.publishedSeen = true
		}
	}
	if !acc.statusSeen {
		if raw := strings.TrimSpace(row.Get(ColStatus)); raw != "" {
			p.Status = parseStatus(raw)
			acc.statusSeen = true
		}
	}
}

// accumulateVariant adds the row's variant data. A row contributes a variant
// only when it carries a positive price; continuation rows carry only image
// or metafield data.
func accumulateVariant(acc *productAccumulator, row RawRow, summary *AggregateSummary) {
	price, ok := ParseMoney(row.Get(ColVariantPrice))
	if !ok || price <= 0 {
		return
	}

	sku := strings.TrimSpace(row.Get(ColVariantSKU))
	option1Value := strings.TrimSpace(row.Get(ColOption1Value))
	key := sku + "\x00" + option1Value
	if _, dup := acc.variantKeys[key]; dup {
		summary.DuplicateVariants++
		return
	}
	acc.variantKeys[key] = struct{}{}

	compareAt, _ := ParseMoney(row.Get(ColVariantCompareAt))
	cost, _ := ParseMoney(row.Get(ColCostPerItem))

	acc.product.Variants = append(acc.product.Variants, catalogdomain.VariantInput{
		SKU:            sku,
		Barcode:        strings.TrimSpace(row.Get(ColVariantBarcode)),
		Price:          price,
		CompareAtPrice: compareAt,
		Cost:           cost,
		InventoryQty:   parseInt(row.Get(ColVariantInventory)),
		Option1Name:    strings.TrimSpace(row.Get(ColOption1Name)),
		Option1Value:   option1Value,
		Option2Name:    strings.TrimSpace(row.Get(ColOption2Name)),
		Option2Value:   strings.TrimSpace(row.Get(ColOption2Value)),
		Option3Name:    strings.TrimSpace(row.Get(ColOption3Name)),
		Option3Value:   strings.TrimSpace(row.Get(ColOption3Value)),
		WeightGrams:    parseInt(row.Get(ColVariantGrams)),
		ImageSrc:       strings.TrimSpace(row.Get(ColVariantImage)),
	})
	summary.Variants++
}

func accumulateImage(acc *productAccumulator, row RawRow, summary *AggregateSummary) {
	src := strings.TrimSpace(row.Get(ColImageSrc))
	if src == "" {
		return
	}
	if _, dup := acc.imageSrcs[src]; dup {
		summary.DuplicateImages++
		return
	}
	acc.imageSrcs[src] = struct{}{}

	acc.product.Images = append(acc.product.Images, catalogdomain.ImageInput{
		Src:      src,
		AltText:  row.Get(ColImageAltText),
		Position: parseInt(row.Get(ColImagePosition)),
	})
	summary.Images++
}

func accumulateMetafields(acc *productAccumulator, row RawRow, columns []metafieldColumn, summary *AggregateSummary) {
	for _, mc := range columns {
		value := strings.TrimSpace(row.Get(mc.column))
		if value == "" {
			continue
		}
		key := mc.namespace + "." + mc.key
		if _, dup := acc.metafieldKeys[key]; dup {
			continue
		}
		acc.metafieldKeys[key] = struct{}{}

		acc.product.Metafields = append(acc.product.Metafields, catalogdomain.MetafieldInput{
			Namespace: mc.namespace,
			Key:       mc.key,
			ValueType: "string",
			Value:     value,
		})
		summary.Metafields++
	}
}

// detectMetafieldColumns finds headers shaped like
// "Color (product.metafields.shopify.color-pattern)".
func detectMetafieldColumns(columns []string) []metafieldColumn {
	const marker = "(product.metafields."

	out := make([]metafieldColumn, 0)
	for _, column := range columns {
		start := strings.Index(column, marker)
		if start < 0 || !strings.HasSuffix(column, ")") {
			continue
		}
		ref := column[start+len(marker) : len(column)-1]
		namespace, key, ok := strings.Cut(ref, ".")
		if !ok || namespace == "" || key == "" {
			continue
		}
		out = append(out, metafieldColumn{column: column, namespace: namespace, key: key})
	}
	return out
}

// ParseMoney converts a decimal money string to minor currency units.
// Decimal string arithmetic avoids float rounding on amounts like "19.99".
func ParseMoney(raw string) (int64, bool) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(raw, "-") {
		negative = true
		raw = raw[1:]
	}

	whole, fraction, _ := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}

	var cents int64
	if fraction != "" {
		// Amounts beyond cent precision round half away from zero.
		roundUp := false
		if len(fraction) > 2 {
			for _, c := range fraction[2:] {
				if c < '0' || c > '9' {
					return 0, false
				}
			}
			roundUp = fraction[2] >= '5'
			fraction = fraction[:2]
		}
		for len(fraction) < 2 {
			fraction += "0"
		}
		cents, err = strconv.ParseInt(fraction, 10, 64)
		if err != nil {
			return 0, false
		}
		if roundUp {
			cents++
		}
	}

	amount := units*100 + cents
	if negative {
		amount = -amount
	}
	return amount, true
}

// FormatMoney renders minor units back to a decimal string for summaries.
func FormatMoney(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// SplitTags parses a comma-delimited tag string into an ordered, de-duplicated
// sequence with whitespace trimmed and empties dropped.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

func parseStatus(raw string) catalogdomain.ProductStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return catalogdomain.StatusDraft
	case "archived":
		return catalogdomain.StatusArchived
	default:
		return catalogdomain.StatusActive
	}
}
