package main

import (
	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "LLM chat assistant with persisted history",
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// --- list ---

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chats, err := newClient().Chats(cmd.Context(), "")
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			if len(chats) == 0 {
				outputHuman("No chats yet.\n")
				return nil
			}
			for _, c := range chats {
				star := " "
				if c.Starred {
					star = "*"
				}
				outputHuman("%s %s  %s\n", star, c.ID, truncateString(c.Title, ListTitleMaxLen))
			}
			return nil
		}
		return outputJSON(map[string]any{"chats": chats})
	},
}

// --- new ---

var chatNewMessage string

var chatNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new chat",
	Long: `Start a new chat. With -m the first message is posted immediately
and the reply printed; the backend titles the chat from it.`,
	Args: cobra.NoArgs,
	RunE: runChatNew,
}

func init() {
	chatNewCmd.Flags().StringVarP(&chatNewMessage, "message", "m", "", "First message to post")
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatNewCmd)
}

func runChatNew(cmd *cobra.Command, args []string) error {
	client := newClient()
	c, err := client.CreateChat(cmd.Context(), "")
	if err != nil {
		exitAPIError(err)
	}

	if chatNewMessage == "" {
		if humanOutput {
			outputHuman("Created chat %s\n", c.ID)
			return nil
		}
		return outputJSON(c)
	}

	result, err := client.PostMessage(cmd.Context(), c.ID, api.OutgoingMessage{
		Role:    api.RoleUser,
		Content: chatNewMessage,
	})
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		title := result.GeneratedTitle
		if title == "" {
			title = chat.DeriveTitle(chatNewMessage)
		}
		outputHuman("Created chat %s: %s\n\n", c.ID, title)
		outputHuman("%s\n", result.Message.Content)
		return nil
	}
	return outputJSON(map[string]any{"chat": c, "reply": result})
}

// --- show ---

var chatShowCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Show a chat transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient().Chat(cmd.Context(), args[0])
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("%s", chat.Transcript(c))
			return nil
		}
		return outputJSON(c)
	},
}

// --- post ---

var (
	chatPostMessage string
	chatPostAttach  []string
)

var chatPostCmd = &cobra.Command{
	Use:   "post <chat-id>",
	Short: "Post a message and print the reply",
	Long: `Post a message to an existing chat and print the assistant's reply.
PDF attachments have their text extracted locally and sent along, so
the assistant can discuss the file's content.

Examples:
  pulse chat post ch_123 -m "How does this relate to RLHF?"
  pulse chat post ch_123 -m "Summarize this" --attach paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runChatPost,
}

func init() {
	chatPostCmd.Flags().StringVarP(&chatPostMessage, "message", "m", "", "Message text (required)")
	chatPostCmd.Flags().StringSliceVar(&chatPostAttach, "attach", nil, "PDF files to attach")
	chatPostCmd.MarkFlagRequired("message")
	chatCmd.AddCommand(chatShowCmd)
	chatCmd.AddCommand(chatPostCmd)
}

func runChatPost(cmd *cobra.Command, args []string) error {
	msg := api.OutgoingMessage{
		Role:    api.RoleUser,
		Content: chatPostMessage,
	}
	for _, path := range chatPostAttach {
		att, err := chat.AttachFile(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		msg.Attachments = append(msg.Attachments, att)
		if id := chat.LinkedArxivID(path); id != "" {
			msg.Sources = append(msg.Sources, api.Source{ArxivID: id, Title: att.Name})
		}
	}

	result, err := newClient().PostMessage(cmd.Context(), args[0], msg)
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		outputHuman("%s\n", result.Message.Content)
		for _, s := range result.Message.Sources {
			outputHuman("  source: %s (%s)\n", s.Title, s.ArxivID)
		}
		return nil
	}
	return outputJSON(result)
}

// --- rename / star / unstar / delete ---

var chatRenameCmd = &cobra.Command{
	Use:   "rename <chat-id> <title>",
	Short: "Rename a chat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateChat(cmd, args[0], api.ChatUpdate{Title: &args[1]})
	},
}

var chatStarCmd = &cobra.Command{
	Use:   "star <chat-id>",
	Short: "Star a chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		starred := true
		return updateChat(cmd, args[0], api.ChatUpdate{Starred: &starred})
	},
}

var chatUnstarCmd = &cobra.Command{
	Use:   "unstar <chat-id>",
	Short: "Unstar a chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		starred := false
		return updateChat(cmd, args[0], api.ChatUpdate{Starred: &starred})
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteChat(cmd.Context(), args[0]); err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("Deleted.\n")
			return nil
		}
		return outputJSON(StatusResponse{Status: "deleted"})
	},
}

func init() {
	chatCmd.AddCommand(chatRenameCmd)
	chatCmd.AddCommand(chatStarCmd)
	chatCmd.AddCommand(chatUnstarCmd)
	chatCmd.AddCommand(chatDeleteCmd)
}

func updateChat(cmd *cobra.Command, id string, update api.ChatUpdate) error {
	c, err := newClient().UpdateChat(cmd.Context(), id, update)
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		star := ""
		if c.Starred {
			star = " *"
		}
		outputHuman("%s: %s%s\n", c.ID, c.Title, star)
		return nil
	}
	return outputJSON(c)
}
