// Demo client for manual play against a running server:
//
//	create <name>      create a room
//	join <code> <name> join a room
//	start              start the game (host only)
//	call               call the next number (host only)
//	mark <row> <col>   toggle a mark on your board
//	claim              claim bingo
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeCreateRoom = 101
	MsgTypeJoinRoom   = 102
	MsgTypeStartGame  = 201
	MsgTypeCallNumber = 202
	MsgTypeMarkCell   = 203
	MsgTypeClaimBingo = 204
)

// send frames and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	log.Println("Client started. Commands: create, join, start, call, mark, claim.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "create":
				name := "player"
				if len(fields) > 1 {
					name = fields[1]
				}
				err = send(c, MsgTypeCreateRoom, map[string]string{"name": name})
			case "join":
				if len(fields) < 3 {
					log.Println("Usage: join <code> <name>")
					continue
				}
				err = send(c, MsgTypeJoinRoom, map[string]string{"room_code": fields[1], "name": fields[2]})
			case "start":
				err = send(c, MsgTypeStartGame, map[string]string{})
			case "call":
				err = send(c, MsgTypeCallNumber, map[string]string{})
			case "mark":
				if len(fields) < 3 {
					log.Println("Usage: mark <row> <col>")
					continue
				}
				row, _ := strconv.Atoi(fields[1])
				col, _ := strconv.Atoi(fields[2])
				err = send(c, MsgTypeMarkCell, map[string]int{"row": row, "col": col})
			case "claim":
				err = send(c, MsgTypeClaimBingo, map[string]string{})
			default:
				log.Printf("Unknown command: %s", fields[0])
				continue
			}

			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
