package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/reservation-app/models"
)

// Event types
const (
	EventReservationCreate  = "reservation_create"
	EventReservationConfirm = "reservation_confirm"
	EventReservationCancel  = "reservation_cancel"
	EventTableCreate        = "table_create"
	EventTableUpdate        = "table_update"
	EventTableDelete        = "table_delete"
	EventAvailabilityUpdate = "availability_update"
	EventPolicyUpdate       = "policy_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client websocket (admin dashboard, client app) dan
// menyiarkan event reservasi. Kegagalan kirim di-log, tidak pernah
// menggagalkan booking yang sudah tersimpan.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastReservationCreate -> reservasi baru dibuat
func BroadcastReservationCreate(reservation models.Reservation) {
	broadcast(Message{
		Event: EventReservationCreate,
		Data:  reservation,
	})
}

// BroadcastReservationConfirm -> reservasi dikonfirmasi
func BroadcastReservationConfirm(reservation models.Reservation) {
	broadcast(Message{
		Event: EventReservationConfirm,
		Data:  reservation,
	})
}

// BroadcastReservationCancel -> reservasi dibatalkan, slot terbuka lagi
func BroadcastReservationCancel(reservation models.Reservation) {
	broadcast(Message{
		Event: EventReservationCancel,
		Data:  reservation,
	})
}

// BroadcastTableUpdate -> perubahan meja (buat/ubah status)
func BroadcastTableUpdate(event string, table models.Table) {
	broadcast(Message{
		Event: event,
		Data:  table,
	})
}

// BroadcastAvailabilityUpdate -> daftar jendela buka meja diganti
func BroadcastAvailabilityUpdate(tableID uint, blocks []models.AvailabilityBlock) {
	broadcast(Message{
		Event: EventAvailabilityUpdate,
		Data: map[string]interface{}{
			"table_id": tableID,
			"blocks":   blocks,
		},
	})
}

// BroadcastPolicyUpdate -> kebijakan booking berubah
func BroadcastPolicyUpdate(cfg models.PolicyConfig) {
	broadcast(Message{
		Event: EventPolicyUpdate,
		Data:  cfg,
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> fungsi internal untuk mengirim pesan, fire-and-forget
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s event to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
