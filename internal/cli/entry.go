package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/store"
	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Write, browse and search diary entries",
}

func init() {
	add := &cobra.Command{
		Use:   "add [content]",
		Short: "Write a new entry",
		Long:  "Write a new entry. Content is read from the argument or from stdin if omitted. Writing goals are checked in for today.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runEntryAdd,
	}
	add.Flags().StringP("title", "t", "", "Entry title")
	add.Flags().StringP("mood", "m", "", "Mood: great, good, okay, bad, terrible")
	add.Flags().String("tags", "", "Comma-separated tags")
	add.Flags().String("place", "", "Location name")
	add.Flags().Float64("lat", 0, "Latitude")
	add.Flags().Float64("lon", 0, "Longitude")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an existing entry",
		Args:  cobra.ExactArgs(1),
		Run:   runEntryUpdate,
	}
	update.Flags().StringP("title", "t", "", "New title")
	update.Flags().StringP("content", "c", "", "New content")
	update.Flags().StringP("mood", "m", "", "New mood")
	update.Flags().String("tags", "", "Replace tags (comma-separated)")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		Run:   runEntryRm,
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		Run:   runEntryGet,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		Run:   runEntryList,
	}
	list.Flags().StringP("mood", "m", "", "Filter by mood")
	list.Flags().String("tag", "", "Filter by tag")
	list.Flags().IntP("limit", "l", 20, "Max results")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over titles, content and tags",
		Args:  cobra.MinimumNArgs(1),
		Run:   runEntrySearch,
	}
	search.Flags().IntP("limit", "l", 20, "Max results")

	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from stored entries",
		Run:   runEntryReindex,
	}

	entryCmd.AddCommand(add, update, rm, get, list, search, reindex)
	RootCmd.AddCommand(entryCmd)
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func runEntryAdd(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	mood, _ := cmd.Flags().GetString("mood")
	tags, _ := cmd.Flags().GetString("tags")
	place, _ := cmd.Flags().GetString("place")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")

	var content string
	if len(args) > 0 {
		content = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		content = string(data)
	}
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		exitErr("entry add", fmt.Errorf("title or content is required"))
	}

	var loc *model.Location
	if place != "" || cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		loc = &model.Location{Name: place, Latitude: lat, Longitude: lon}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	res, err := a.diary.Create(cmd.Context(), store.CreateEntryParams{
		Title:    title,
		Content:  content,
		Mood:     mood,
		Tags:     splitTags(tags),
		Location: loc,
	})
	if err != nil {
		exitErr("entry add", err)
	}

	if textOutput() {
		fmt.Println(renderEntry(*res.Entry))
		if len(res.CheckedIn) > 0 {
			fmt.Println(streakStyle.Render(fmt.Sprintf("checked in %d writing goal(s)", len(res.CheckedIn))))
		}
		return
	}
	printJSON(res)
}

func runEntryUpdate(cmd *cobra.Command, args []string) {
	p := store.UpdateEntryParams{ID: args[0]}
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		p.Title = &v
	}
	if cmd.Flags().Changed("content") {
		v, _ := cmd.Flags().GetString("content")
		p.Content = &v
	}
	if cmd.Flags().Changed("mood") {
		v, _ := cmd.Flags().GetString("mood")
		p.Mood = &v
	}
	if cmd.Flags().Changed("tags") {
		v, _ := cmd.Flags().GetString("tags")
		p.Tags = splitTags(v)
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	res, err := a.diary.Update(cmd.Context(), p)
	if err != nil {
		exitErr("entry update", err)
	}
	if textOutput() {
		fmt.Println(renderEntry(*res.Entry))
		return
	}
	printJSON(res)
}

func runEntryRm(cmd *cobra.Command, args []string) {
	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if err := a.diary.Delete(cmd.Context(), args[0]); err != nil {
		exitErr("entry rm", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}

func runEntryGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	e, err := s.GetEntry(cmd.Context(), args[0])
	if err != nil {
		exitErr("entry get", err)
	}
	if textOutput() {
		fmt.Println(renderEntry(*e))
		return
	}
	printJSON(e)
}

func runEntryList(cmd *cobra.Command, args []string) {
	mood, _ := cmd.Flags().GetString("mood")
	tag, _ := cmd.Flags().GetString("tag")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.ListEntries(cmd.Context(), store.ListEntriesParams{Mood: mood, Tag: tag, Limit: limit})
	if err != nil {
		exitErr("entry list", err)
	}
	printEntries(entries)
}

func runEntrySearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.SearchEntries(cmd.Context(), store.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
	})
	if err != nil {
		exitErr("entry search", err)
	}
	printSearchResults(results)
}

func runEntryReindex(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.RebuildIndex(cmd.Context())
	if err != nil {
		exitErr("reindex", err)
	}
	fmt.Printf(`{"ok":true,"indexed":%d}`+"\n", n)
}
