package dto

import "sunami_park/internal/domain/models"

type TimingsInput struct {
	OpenTime  string `json:"openTime" validate:"required"`
	CloseTime string `json:"closeTime" validate:"required"`
	Days      string `json:"days" validate:"required"`
}

type PricesInput struct {
	Weekday int `json:"weekday" validate:"gte=0"`
	Weekend int `json:"weekend" validate:"gte=0"`
}

type FacilitiesInput struct {
	LockerRoom       int `json:"lockerRoom" validate:"gte=0"`
	SwimmingCostumes int `json:"swimmingCostumes" validate:"gte=0"`
}

// UpdateSettingsRequest carries a partial settings update: omitted sections
// stay untouched.
type UpdateSettingsRequest struct {
	Timings    *TimingsInput    `json:"timings,omitempty"`
	Prices     *PricesInput     `json:"prices,omitempty"`
	Facilities *FacilitiesInput `json:"facilities,omitempty"`
}

func (r UpdateSettingsRequest) ToModel() models.SettingsUpdate {
	var upd models.SettingsUpdate

	if r.Timings != nil {
		upd.Timings = &models.Timings{
			OpenTime:  r.Timings.OpenTime,
			CloseTime: r.Timings.CloseTime,
			Days:      r.Timings.Days,
		}
	}
	if r.Prices != nil {
		upd.Prices = &models.Prices{
			Weekday: r.Prices.Weekday,
			Weekend: r.Prices.Weekend,
		}
	}
	if r.Facilities != nil {
		upd.Facilities = &models.Facilities{
			LockerRoom:       r.Facilities.LockerRoom,
			SwimmingCostumes: r.Facilities.SwimmingCostumes,
		}
	}

	return upd
}
