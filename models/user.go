// models/user.go
package models

import "time"

// User represents a platform account. Locale drives notification language;
// Devices carry the FCM push targets registered by the mobile/web clients.
type User struct {
	ID            string    `bson:"id" json:"id"`
	Username      string    `bson:"username" json:"username"`
	Email         string    `bson:"email" json:"email"`
	EmailVerified bool      `bson:"emailVerified" json:"emailVerified"`
	Password      string    `bson:"-" json:"password,omitempty"`
	PasswordHash  string    `bson:"passwordHash" json:"-"`
	Locale        string    `bson:"locale,omitempty" json:"locale,omitempty"`
	Currency      string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Devices       []Device  `bson:"devices,omitempty" json:"devices,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Device is one registered client installation for a user.
type Device struct {
	DeviceID   string    `bson:"deviceId" json:"deviceId"`
	DeviceName string    `bson:"deviceName" json:"deviceName"`
	FCMToken   string    `bson:"fcmToken" json:"-"`
	LastSeen   time.Time `bson:"lastSeen" json:"lastSeen"`
}
