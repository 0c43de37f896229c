package onboarding

// Document slot keys. Slot keys are stable identifiers shared with the
// backend and the merchant_documents table.
const (
	SlotCertificateOfRegistration = "certificate_of_registration"
	SlotDTISECCertificate         = "dti_sec_certificate"
	SlotBusinessPermit            = "business_permit"
	SlotBarangayPermit            = "barangay_permit"
)

// documentRequirements is the category to requirement table. Adding a new
// registration category is a data change here, not a code change.
var documentRequirements = map[RegistrationCategory][]DocumentRequirement{
	CategoryVATRegistered: {
		{SlotKey: SlotCertificateOfRegistration, Label: "BIR Certificate of Registration", Required: true},
		{SlotKey: SlotDTISECCertificate, Label: "DTI/SEC Certificate", Required: true},
		{SlotKey: SlotBusinessPermit, Label: "Mayor's/Business Permit", Required: true},
	},
	CategoryNonVATRegistered: {
		{SlotKey: SlotBarangayPermit, Label: "Barangay Permit", Required: true},
		{SlotKey: SlotDTISECCertificate, Label: "DTI/SEC Certificate", Required: true},
		{SlotKey: SlotCertificateOfRegistration, Label: "BIR Certificate of Registration", Required: false},
		{SlotKey: SlotBusinessPermit, Label: "Mayor's/Business Permit", Required: false},
	},
	CategoryUnregistered: {},
}

// ResolveDocumentRequirements returns the ordered requirement list for a
// registration category. Unknown categories resolve to an empty list: the
// caller must treat that as "no documents needed", not as an error.
func ResolveDocumentRequirements(category RegistrationCategory) []DocumentRequirement {
	reqs, ok := documentRequirements[category]
	if !ok {
		return nil
	}
	out := make([]DocumentRequirement, len(reqs))
	copy(out, reqs)
	return out
}

// RequiredSlots returns only the mandatory slot keys for a category.
func RequiredSlots(category RegistrationCategory) []string {
	var slots []string
	for _, req := range ResolveDocumentRequirements(category) {
		if req.Required {
			slots = append(slots, req.SlotKey)
		}
	}
	return slots
}

// KnownSlot reports whether a slot key appears in any category's
// requirement list. Uploads for unknown slots are rejected.
func KnownSlot(slotKey string) bool {
	for _, reqs := range documentRequirements {
		for _, req := range reqs {
			if req.SlotKey == slotKey {
				return true
			}
		}
	}
	return false
}
