package telnyx

// AvailableNumber is a number returned by SearchNumbers.
type AvailableNumber struct {
	PhoneNumber string   `json:"phone_number"`
	Region      string   `json:"region,omitempty"`
	Features    []string `json:"features"`
	MonthlyCost string   `json:"monthly_cost,omitempty"`
	Currency    string   `json:"currency,omitempty"`
}

type availableNumbersResponse struct {
	Data []struct {
		PhoneNumber       string `json:"phone_number"`
		RegionInformation []struct {
			RegionName string `json:"region_name"`
			RegionType string `json:"region_type"`
		} `json:"region_information"`
		Features []struct {
			Name string `json:"name"`
		} `json:"features"`
		CostInformation struct {
			MonthlyCost string `json:"monthly_cost"`
			Currency    string `json:"currency"`
		} `json:"cost_information"`
	} `json:"data"`
}

type numberOrderRequest struct {
	PhoneNumbers []orderPhoneNumber `json:"phone_numbers"`
}

type orderPhoneNumber struct {
	PhoneNumber string `json:"phone_number"`
}

type numberOrderResponse struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

type errorResponse struct {
	Errors []struct {
		Code   string `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}
