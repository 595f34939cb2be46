package services

import (
	"time"

	dbm "ococalli/internal/models/db_models"
	resp "ococalli/internal/models/response_models"
)

func toPlanResponse(p *dbm.MembershipPlan) *resp.PlanResponse {
	if p == nil {
		return nil
	}
	return &resp.PlanResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DurationMonths:  p.DurationMonths,
		FreeMonths:      p.FreeMonths,
		TotalMonths:     p.TotalMonths(),
		SubscriptionFee: p.SubscriptionFee,
	}
}

func toLocationResponse(l *dbm.PickupLocation) *resp.PickupLocationResponse {
	if l == nil {
		return nil
	}
	days := []string(l.DeliveryDays)
	if days == nil {
		days = []string{}
	}
	return &resp.PickupLocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		Address:      l.Address,
		Schedule:     l.Schedule,
		Zone:         l.Zone,
		DeliveryDays: days,
	}
}

func toCustomerResponse(c *dbm.Customer, now time.Time) resp.CustomerResponse {
	return resp.CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		MembershipCode: c.MembershipCode,
		Status:         string(c.Status),
		Plan:           toPlanResponse(c.MembershipPlan),
		PickupLocation: toLocationResponse(c.PickupLocation),
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Delivered:      c.Delivered,
		DeliveredAt:    c.DeliveredAt,
		Membership:     DeriveMembershipStatus(c.StartDate, c.EndDate, c.MembershipPlan, now),
	}
}

func toPublicMembership(c *dbm.Customer, now time.Time) resp.PublicMembershipResponse {
	out := resp.PublicMembershipResponse{
		Name:           c.Name,
		MembershipCode: c.MembershipCode,
		Status:         string(c.Status),
		StartDate:      c.StartDate,
		PickupLocation: toLocationResponse(c.PickupLocation),
		Membership:     DeriveMembershipStatus(c.StartDate, c.EndDate, c.MembershipPlan, now),
	}
	if c.MembershipPlan != nil {
		out.PlanName = c.MembershipPlan.Name
	}
	return out
}

func toRenewalResponse(r *dbm.Renewal) resp.RenewalResponse {
	out := resp.RenewalResponse{
		ID:               r.ID,
		CustomerID:       r.CustomerID,
		MembershipPlanID: r.MembershipPlanID,
		RenewalDate:      r.RenewalDate,
		Concept:          r.Concept,
		Amount:           r.Amount,
		MethodOfPayment:  r.MethodOfPayment,
		ReceivedBy:       r.ReceivedBy,
		PreviousEndDate:  r.PreviousEndDate,
		NewStartDate:     r.NewStartDate,
		NewEndDate:       r.NewEndDate,
	}
	if r.Customer != nil {
		out.CustomerName = r.Customer.Name
		out.CustomerEmail = r.Customer.Email
		out.CustomerStatus = string(r.Customer.Status)
	}
	if r.MembershipPlan != nil {
		out.PlanName = r.MembershipPlan.Name
		out.PlanMonths = r.MembershipPlan.TotalMonths()
	}
	return out
}

func toDeliveryResponse(d *dbm.DeliveryRecord) resp.DeliveryRecordResponse {
	out := resp.DeliveryRecordResponse{
		ID:              d.ID,
		CustomerID:      d.CustomerID,
		DeliveryTime:    d.DeliveryTime,
		TransportType:   d.TransportType,
		Quantity:        d.Quantity,
		ReturnedHuacals: d.ReturnedHuacals,
		Extras:          d.Extras,
		ExtraItem:       d.ExtraItem,
		ExtraPrice:      d.ExtraPrice,
		PaymentMethod:   d.PaymentMethod,
		CashPayment:     d.CashPayment,
		Status:          d.Status,
		HomeAddress:     d.HomeAddress,
	}
	if d.Customer != nil {
		out.CustomerName = d.Customer.Name
	}
	if d.PickupLocation != nil {
		out.LocationName = d.PickupLocation.Name
		out.LocationAddress = d.PickupLocation.Address
		if d.PickupLocation.Zone != nil {
			out.Zone = *d.PickupLocation.Zone
		}
	}
	return out
}
