package listing

import (
	"github.com/kailas-cloud/vetdir/internal/db"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
)

// Stored field names.
const (
	fieldName         = "name"
	fieldPhone        = "phone"
	fieldEmail        = "email"
	fieldWebsite      = "website"
	fieldAddress      = "address"
	fieldCity         = "city"
	fieldRegion       = "region"
	fieldLatitude     = "latitude"
	fieldLongitude    = "longitude"
	fieldSpecialties  = "specialties"
	fieldServices     = "services"
	fieldHours        = "hours"
	fieldRating       = "rating"
	fieldReviewsCount = "reviews_count"
	fieldIsVerified   = "is_verified"
	fieldAvatarURL    = "avatar_url"
)

// toRecord flattens a listing into a store record. Unset optionals are omitted.
func toRecord(l domlisting.Listing) db.Record {
	l.Normalize()
	rec := db.Record{
		fieldName:         l.Name,
		fieldCity:         l.City,
		fieldRegion:       l.Region,
		fieldSpecialties:  l.Specialties,
		fieldServices:     l.Services,
		fieldRating:       l.Rating,
		fieldReviewsCount: l.ReviewsCount,
		fieldIsVerified:   l.IsVerified,
	}
	putString(rec, fieldPhone, l.Phone)
	putString(rec, fieldEmail, l.Email)
	putString(rec, fieldWebsite, l.Website)
	putString(rec, fieldAddress, l.Address)
	putString(rec, fieldAvatarURL, l.AvatarURL)
	if l.Latitude != nil {
		rec[fieldLatitude] = *l.Latitude
	}
	if l.Longitude != nil {
		rec[fieldLongitude] = *l.Longitude
	}
	if l.Hours != nil {
		rec[fieldHours] = l.Hours
	}
	return rec
}

// fromRecord rebuilds a listing, applying defaults for absent fields.
func fromRecord(rec db.Record) domlisting.Listing {
	l := domlisting.Listing{
		ID:           rec.ID(),
		Name:         rec.String(fieldName),
		Phone:        rec.StringPtr(fieldPhone),
		Email:        rec.StringPtr(fieldEmail),
		Website:      rec.StringPtr(fieldWebsite),
		Address:      rec.StringPtr(fieldAddress),
		City:         rec.String(fieldCity),
		Region:       rec.String(fieldRegion),
		Latitude:     rec.FloatPtr(fieldLatitude),
		Longitude:    rec.FloatPtr(fieldLongitude),
		Specialties:  rec.Strings(fieldSpecialties),
		Services:     rec.Strings(fieldServices),
		Hours:        rec.Map(fieldHours),
		Rating:       rec.Float(fieldRating, 0),
		ReviewsCount: rec.Int(fieldReviewsCount, 0),
		IsVerified:   rec.Bool(fieldIsVerified, false),
		AvatarURL:    rec.StringPtr(fieldAvatarURL),
	}
	l.Normalize()
	return l
}

func putString(rec db.Record, key string, v *string) {
	if v != nil {
		rec[key] = *v
	}
}
