package export

import (
	"strings"

	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
)

// BuildCustomers maps customer export rows to reconciler inputs. The
// customer export carries no external ID column, so email is the match key;
// rows without one are skipped.
func BuildCustomers(export *Export) ([]customerdomain.CustomerInput, AggregateSummary) {
	summary := AggregateSummary{Rows: len(export.Rows)}

	seen := make(map[string]struct{}, len(export.Rows))
	customers := make([]customerdomain.CustomerInput, 0, len(export.Rows))
	for _, row := range export.Rows {
		email := strings.ToLower(strings.TrimSpace(row.Get(ColCustEmail)))
		if email == "" {
			summary.SkippedRows++
			continue
		}
		if _, dup := seen[email]; dup {
			summary.SkippedRows++
			continue
		}
		seen[email] = struct{}{}

		customers = append(customers, customerdomain.CustomerInput{
			Email:            email,
			FirstName:        strings.TrimSpace(row.Get(ColCustFirstName)),
			LastName:         strings.TrimSpace(row.Get(ColCustLastName)),
			Phone:            strings.TrimSpace(row.Get(ColCustPhone)),
			AcceptsMarketing: parseBool(row.Get(ColCustMarketing)),
			Tags:             SplitTags(row.Get(ColCustTags)),
			Note:             row.Get(ColCustNote),
			Address1:         row.Get(ColCustAddress1),
			Address2:         row.Get(ColCustAddress2),
			Company:          row.Get(ColCustCompany),
			City:             row.Get(ColCustCity),
			Province:         row.Get(ColCustProvince),
			Country:          row.Get(ColCustCountry),
			Zip:              row.Get(ColCustZip),
		})
	}
	summary.Entities = len(customers)
	return customers, summary
}
