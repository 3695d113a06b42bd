package bagsplit

import (
	"strings"

	"github.com/Tanmoy095/LogiSynapse/shared/contracts"
)

// Field names reported by Validate.
const (
	FieldOldBagAWB          = "old_bag_awb"
	FieldNewBagAWB          = "new_bag_awb"
	FieldTransferLocation   = "transfer_location"
	FieldPackageAWBNumbers  = "package_awb_numbers"
	FieldDestinationName    = "destination.name"
	FieldDestinationPhone   = "destination.phone"
	FieldDestinationAddress = "destination.address_line"
	FieldDestinationCity    = "destination.city"
	FieldDestinationState   = "destination.state"
	FieldDestinationPincode = "destination.pincode"
)

// Form is everything the operator sees and edits in the sub-bag dialog.
type Form struct {
	SourceBag        contracts.Bag
	OldBagAWB        string
	NewBagAWB        string
	StaffID          string
	SourceAddressID  string
	Source           contracts.Address
	Destination      contracts.Address
	TransferLocation string
	// Selected follows the order of SourceBag.PackageAWBNos.
	Selected []string
}

// BuildRequest turns a form into the payload for POST /api/bags/updateBag.
func BuildRequest(f Form) contracts.SubBagTransferRequest {
	return contracts.SubBagTransferRequest{
		OldBagAWB:          f.OldBagAWB,
		NewBagAWB:          f.NewBagAWB,
		PackageAWBNumbers:  append([]string{}, f.Selected...),
		SourceAddressID:    f.SourceAddressID,
		DestinationAddress: f.Destination,
		TransferLocation:   f.TransferLocation,
		StaffID:            f.StaffID,
	}
}

// Validate returns the names of all missing required fields in a fixed
// order. Blank strings count as missing. An empty result means req may be sent.
func Validate(req contracts.SubBagTransferRequest) []string {
	var missing []string
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	require(FieldOldBagAWB, req.OldBagAWB)
	require(FieldNewBagAWB, req.NewBagAWB)
	require(FieldTransferLocation, req.TransferLocation)
	if len(req.PackageAWBNumbers) == 0 {
		missing = append(missing, FieldPackageAWBNumbers)
	}

	dest := req.DestinationAddress
	require(FieldDestinationName, dest.Name)
	require(FieldDestinationPhone, dest.Phone)
	require(FieldDestinationAddress, dest.AddressLine)
	require(FieldDestinationCity, dest.City)
	require(FieldDestinationState, dest.State)
	require(FieldDestinationPincode, dest.Pincode)

	return missing
}
