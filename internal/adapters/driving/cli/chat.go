package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the archive assistant",
	Long: `Starts a conversation in the terminal. Each line is one message; the
assistant remembers earlier searches so follow-up questions such as
"¿y de 1990?" refine the previous results.

Commands:
  /reset   start a new conversation
  /salir   quit (also "exit" or Ctrl+D)

When stdin is not a terminal, each input line is answered and the
prompt and banner are omitted, so conversations can be scripted.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "resume or name the conversation session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := cmd.Context()
	interactive := isTerminal(cmd.InOrStdin())
	if interactive {
		cmd.Println("Archivo Patrimonial UAH")
		cmd.Println("Pregunta por documentos, fotografías o eventos. /reset reinicia, /salir termina.")
		cmd.Println()
	}

	session := chatSessionID
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "/salir", "/quit", "exit", "salir":
			return nil
		case "/reset":
			if session != "" {
				chatService.Reset(ctx, session)
			}
			session = chatSessionID
			cmd.Println("Nueva conversación.")
			cmd.Println()
			continue
		}

		reply, err := chatService.Chat(ctx, session, line)
		if errors.Is(err, domain.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		session = reply.SessionID

		cmd.Println(reply.Text)
		cmd.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
