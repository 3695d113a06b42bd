package contracts

import "time"

// Address is a sender or receiver address as the backend returns it.
type Address struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// UserProfile is the signed-in staff member. Role is the raw backend string;
// rbac.ParseRole turns it into a known role.
type UserProfile struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Role    string  `json:"role,omitempty"`
	Address Address `json:"address"`
}

// Bag groups package AWBs that travel together. Receiver fields are
// flattened the way the backend stores them.
type Bag struct {
	ID                     string    `json:"id"`
	AWBNo                  string    `json:"awb_no"`
	SourceAddress          Address   `json:"source_address"`
	DestinationName        string    `json:"destination_name"`
	DestinationPhone       string    `json:"destination_phone,omitempty"`
	DestinationAddressLine string    `json:"destination_address_li"`
	DestinationCity        string    `json:"destination_city"`
	DestinationState       string    `json:"destination_state"`
	DestinationPincode     string    `json:"destination_pincode"`
	PackageAWBNos          []string  `json:"package_awb_nos"`
	CreatedAt              time.Time `json:"created_at"`
}

// Destination returns the flattened receiver fields as an Address.
func (b Bag) Destination() Address {
	return Address{
		Name:        b.DestinationName,
		Phone:       b.DestinationPhone,
		AddressLine: b.DestinationAddressLine,
		City:        b.DestinationCity,
		State:       b.DestinationState,
		Pincode:     b.DestinationPincode,
	}
}

// HasPackage reports whether awb is currently inside the bag.
func (b Bag) HasPackage(awb string) bool {
	for _, p := range b.PackageAWBNos {
		if p == awb {
			return true
		}
	}
	return false
}

// SubBagTransferRequest moves PackageAWBNumbers from OldBagAWB into the newly
// minted NewBagAWB. The destination is sent as a full address object under
// the backend's "destination_address_id" key.
type SubBagTransferRequest struct {
	OldBagAWB          string   `json:"old_bag_awb"`
	NewBagAWB          string   `json:"new_bag_awb"`
	PackageAWBNumbers  []string `json:"package_awb_numbers"`
	SourceAddressID    string   `json:"source_address_id"`
	DestinationAddress Address  `json:"destination_address_id"`
	TransferLocation   string   `json:"transfer_location"`
	StaffID            string   `json:"staff_id"`
}

// UpdateBagResponse is the backend's answer to POST /api/bags/updateBag.
type UpdateBagResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
