package debug

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ============================================================================
// DASHBOARD DE DEBUGGING (WebSocket)
// ============================================================================
// Cada request y cada log warn+ se retransmite a los dashboards conectados.
// Si no hay clientes, los mensajes se descartan sin costo.

// sink es lo mínimo que el hub necesita de una conexión
type sink interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub maneja las conexiones WebSocket del dashboard
type Hub struct {
	clients    map[sink]bool
	broadcast  chan []byte
	register   chan sink
	unregister chan sink
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	started    time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[sink]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan sink),
		unregister: make(chan sink),
		done:       make(chan struct{}),
		started:    time.Now(),
	}
}

// Run procesa registros y broadcast hasta Close
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Dashboard conectado. Total clientes: %d", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Dashboard desconectado. Total clientes: %d", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("Error enviando mensaje al dashboard: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Close detiene el loop y cierra todas las conexiones
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.closeOnce.Do(func() { close(h.done) })
}

// Clients retorna la cantidad de dashboards conectados
func (h *Hub) Clients() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConn atiende una conexión hasta que el cliente se desconecta.
// Los comandos del cliente se ignoran; solo se lee para detectar el cierre.
func (h *Hub) HandleConn(conn *websocket.Conn) {
	h.serve(conn, func() error {
		_, _, err := conn.ReadMessage()
		return err
	})
}

func (h *Hub) serve(client sink, read func() error) {
	select {
	case h.register <- client:
	case <-h.done:
		return
	}
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	for {
		if err := read(); err != nil {
			return
		}
	}
}

// LogMessage representa un mensaje de log para el dashboard
type LogMessage struct {
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Timestamp int64                  `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SendLog envía un log al dashboard
func (h *Hub) SendLog(source, level, message string, metadata map[string]interface{}) {
	if h == nil || h.Clients() == 0 {
		return
	}
	h.send(LogMessage{
		Type:      "log",
		Source:    source,
		Level:     level,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
		Metadata:  metadata,
	})
}

// ServiceStatus es el estado de un colaborador externo
type ServiceStatus struct {
	Status  string `json:"status"`
	Driver  string `json:"driver,omitempty"`
	Latency int64  `json:"latencyMs,omitempty"`
}

// StatusMessage agrupa el estado del backend y sus colaboradores
type StatusMessage struct {
	Type     string                   `json:"type"`
	Uptime   int64                    `json:"uptime"`
	Version  string                   `json:"version"`
	Services map[string]ServiceStatus `json:"services"`
}

// SendStatus envía el estado de servicios al dashboard
func (h *Hub) SendStatus(version string, services map[string]ServiceStatus) {
	if h == nil || h.Clients() == 0 {
		return
	}
	h.send(StatusMessage{
		Type:     "api_status",
		Uptime:   int64(time.Since(h.started).Seconds()),
		Version:  version,
		Services: services,
	})
}

func (h *Hub) send(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error al serializar mensaje para dashboard: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// canal lleno, se descarta
	}
}
