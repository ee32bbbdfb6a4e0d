package oracle

import "TruthSource/internal/domain/service"

// Output schemas handed to the oracle backends. Only the fields the
// normalizer cannot invent are marked required.

func str(desc string) *service.Schema {
	return &service.Schema{Type: service.TypeString, Description: desc}
}

func num(desc string) *service.Schema {
	return &service.Schema{Type: service.TypeNumber, Description: desc}
}

func strList(desc string) *service.Schema {
	return &service.Schema{Type: service.TypeArray, Description: desc, Items: &service.Schema{Type: service.TypeString}}
}

// DemandSchema describes a demand forecast.
func DemandSchema() *service.Schema {
	item := &service.Schema{
		Type: service.TypeObject,
		Properties: map[string]*service.Schema{
			"product_id":       str("product identifier"),
			"warehouse_id":     {Type: service.TypeString, Nullable: true},
			"date":             {Type: service.TypeString, Format: "date-time", Description: "forecast day (RFC3339)"},
			"predicted_demand": num("units expected on that day"),
			"confidence_score": num("0..1"),
			"seasonal_factor":  {Type: service.TypeNumber, Nullable: true},
		},
		Required: []string{"product_id", "date", "predicted_demand", "confidence_score"},
	}
	return &service.Schema{
		Name: "demand_forecast",
		Type: service.TypeObject,
		Properties: map[string]*service.Schema{
			"forecasts":      {Type: service.TypeArray, Items: item},
			"model_accuracy": num("overall accuracy 0..1"),
		},
		Required: []string{"forecasts"},
	}
}

// DeliverySchema describes a delivery prediction.
func DeliverySchema() *service.Schema {
	return &service.Schema{
		Name: "delivery_prediction",
		Type: service.TypeObject,
		Properties: map[string]*service.Schema{
			"estimated_delivery_date": {Type: service.TypeString, Format: "date-time"},
			"confidence_score":        num("0..1"),
			"transit_days":            {Type: service.TypeInteger},
			"carrier_recommendation":  str("carrier to use"),
			"factors_considered":      strList("factors that shaped the estimate"),
			"alternative_options": {
				Type:  service.TypeArray,
				Items: &service.Schema{Type: service.TypeObject},
			},
		},
	}
}

// AnomalySchema describes an anomaly report.
func AnomalySchema() *service.Schema {
	item := &service.Schema{
		Type: service.TypeObject,
		Properties: map[string]*service.Schema{
			"anomaly_type":      str("short category"),
			"severity":          {Type: service.TypeString, Enum: []string{"low", "medium", "high", "critical"}},
			"description":       str("what was observed"),
			"affected_entities": strList("products, customers, warehouses"),
			"detected_at":       {Type: service.TypeString, Format: "date-time"},
			"recommendation":    {Type: service.TypeString, Nullable: true},
		},
		Required: []string{"anomaly_type", "severity", "description"},
	}
	return &service.Schema{
		Name: "anomaly_detection",
		Type: service.TypeObject,
		Properties: map[string]*service.Schema{
			"anomalies":              {Type: service.TypeArray, Items: item},
			"total_anomalies":        {Type: service.TypeInteger},
			"model_confidence":       num("0..1"),
			"next_check_recommended": {Type: service.TypeString, Format: "date-time"},
		},
		Required: []string{"anomalies"},
	}
}
