package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bdshop/storefront-backend/pkg/types"

	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

// Country is the only delivery destination offered at checkout.
const Country = "Bangladesh"

// MaxHomeAddressLength bounds the address copied into gateway metadata.
const MaxHomeAddressLength = 500

var (
	phonePattern = regexp.MustCompile(`^(\+8801|01)[3-9]\d{8}$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

var districts = []string{
	"dhaka", "chittagong", "rajshahi", "khulna", "barisal", "sylhet", "rangpur", "mymensingh",
	"comilla", "narayanganj", "gazipur", "jessore", "bogra", "dinajpur", "pabna", "tangail",
	"jamalpur", "kishoreganj", "faridpur", "manikganj", "narsingdi", "brahmanbaria", "chandpur",
	"lakshmipur", "noakhali", "feni", "coxsbazar", "bandarban", "rangamati", "khagrachhari",
	"patuakhali", "pirojpur", "jhalokati", "barguna", "bhola", "satkhira", "bagerhat", "narail",
	"chuadanga", "kushtia", "meherpur", "jhenaidah", "magura", "rajbari", "gopalganj", "madaripur",
	"shariatpur", "sirajganj", "natore", "naogaon", "joypurhat", "chapainawabganj", "gaibandha",
	"thakurgaon", "panchagarh", "lalmonirhat", "nilphamari", "kurigram", "netrokona", "sherpur",
	"moulvibazar", "habiganj", "sunamganj", "munshiganj",
}

var districtSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(districts))
	for _, d := range districts {
		set[d] = struct{}{}
	}
	return set
}()

// Districts returns the accepted district slugs.
func Districts() []string {
	out := make([]string, len(districts))
	copy(out, districts)
	return out
}

// IsDistrict reports whether value is an accepted district slug.
func IsDistrict(value string) bool {
	_, ok := districtSet[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// NormalizePhone strips whitespace from a phone number.
func NormalizePhone(value string) string {
	return whitespace.ReplaceAllString(value, "")
}

// IsBangladeshPhone reports whether value is a Bangladeshi mobile number.
func IsBangladeshPhone(value string) bool {
	return phonePattern.MatchString(NormalizePhone(value))
}

// NormalizeShipping trims fields, lowercases the district, fixes the country and
// truncates the home address.
func NormalizeShipping(in types.ShippingAddress) types.ShippingAddress {
	out := types.ShippingAddress{
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: NormalizePhone(in.PhoneNumber),
		District:    strings.ToLower(strings.TrimSpace(in.District)),
		HomeAddress: strings.TrimSpace(in.HomeAddress),
		Country:     Country,
	}
	if runes := []rune(out.HomeAddress); len(runes) > MaxHomeAddressLength {
		out.HomeAddress = string(runes[:MaxHomeAddressLength])
	}
	return out
}

// ValidateShipping checks every required delivery field and reports each problem.
func ValidateShipping(in types.ShippingAddress) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.FullName) == "" {
		fields["fullName"] = "full name is required"
	}
	switch {
	case strings.TrimSpace(in.PhoneNumber) == "":
		fields["phoneNumber"] = "phone number is required"
	case !IsBangladeshPhone(in.PhoneNumber):
		fields["phoneNumber"] = "phone number must be a valid Bangladeshi mobile number"
	}
	switch {
	case strings.TrimSpace(in.District) == "":
		fields["district"] = "district is required"
	case !IsDistrict(in.District):
		fields["district"] = "unknown district"
	}
	if strings.TrimSpace(in.HomeAddress) == "" {
		fields["homeAddress"] = "home address is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "shipping information is incomplete").WithDetails(map[string]any{
		"fields": fields,
	})
}

// LineItemInput describes a basket line sent to the payment gateway.
type LineItemInput struct {
	ProductID string
	Title     string
	Price     *float64
}

// ValidateLineItems ensures every item has a title and a positive price.
func ValidateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no items provided")
	}
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is missing a title", item.ProductID)).WithDetails(map[string]any{
				"productId": item.ProductID,
			})
		}
		if item.Price == nil || *item.Price <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid price for product %s", item.Title)).WithDetails(map[string]any{
				"productId": item.ProductID,
			})
		}
	}
	return nil
}
