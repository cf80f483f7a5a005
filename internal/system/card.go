package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccvpets/server/internal/data"
	"github.com/ccvpets/server/internal/world"
)

// PetCard is the read-only projection of a pet returned by Adopt and
// Status: current values, the evolution preview, rendered card text, and
// an optional random event.
type PetCard struct {
	OwnerID          string
	Name             string
	OwnerDisplayName string
	Species          string
	Level            int
	Experience       float64
	RequiredExp      float64
	Coins            int
	SkillLevel       int
	Intelligence     int
	Stamina          int
	Stats            world.Stats
	BirthDate        time.Time
	Preview          EvolutionPreview
	CardText         string
	Event            *RandomEvent
}

func (r *Registry) card(pet *world.PetState, ev *RandomEvent) *PetCard {
	card := &PetCard{
		OwnerID:          pet.OwnerID,
		Name:             pet.Name,
		OwnerDisplayName: pet.OwnerDisplayName,
		Species:          pet.Species,
		Level:            pet.Level,
		Experience:       pet.Experience,
		RequiredExp:      r.prog.RequiredExp(pet.Level),
		Coins:            pet.Coins,
		SkillLevel:       pet.SkillLevel,
		Intelligence:     pet.Intelligence,
		Stamina:          pet.Stamina,
		Stats:            pet.Stats,
		BirthDate:        pet.BirthDate,
		Preview:          r.prog.Preview(pet),
		Event:            ev,
	}
	card.CardText = renderCard(card, pet.Level >= pet.MaxLevel)
	return card
}

// renderCard builds the text card shown to owners: one gauge segment per
// 10 stat points, plus the evolution preview.
func renderCard(c *PetCard, atCap bool) string {
	var b strings.Builder
	b.WriteString("🐾 | 宠物名片 | 🐾\n")
	fmt.Fprintf(&b, "🐾 名字：%s\n", c.Name)
	fmt.Fprintf(&b, "👤 主人：%s\n", c.OwnerDisplayName)
	fmt.Fprintf(&b, "🧬 进化阶段：%s\n", c.Species)
	fmt.Fprintf(&b, "🌟 等级：%d\n", c.Level)
	fmt.Fprintf(&b, "⚡ 经验值：%d/%d\n", int(c.Experience), int(c.RequiredExp))
	fmt.Fprintf(&b, "💰 金币数：%d\n", c.Coins)
	fmt.Fprintf(&b, "🔧 技能等级：%d\n", c.SkillLevel)
	fmt.Fprintf(&b, "🧠 智力：%d\n", c.Intelligence)
	fmt.Fprintf(&b, "💪 耐力：%d\n", c.Stamina)

	writeGauge(&b, "🍔 饱食度", c.Stats.Hunger)
	writeGauge(&b, "😊 快乐值", c.Stats.Happiness)
	writeGauge(&b, "💖 健康值", c.Stats.Health)
	writeGauge(&b, "💕 忠诚度", c.Stats.Loyalty)

	fmt.Fprintf(&b, "🔜 下一等级还需经验：%d\n", int(c.RequiredExp)-int(c.Experience))
	if c.Preview.Terminal || atCap {
		b.WriteString("🏆 当前已是最终进化形态。\n")
	} else {
		fmt.Fprintf(&b, "🔄 下一进化阶段：%s (等级 %d)\n", c.Preview.Next, c.Preview.LevelRequired)
	}
	return b.String()
}

func writeGauge(b *strings.Builder, label string, value int) {
	filled := value / 10
	fmt.Fprintf(b, "%s：[%s%s] %d/100\n",
		label, strings.Repeat("█", filled), strings.Repeat("░", 10-filled), value)
}

// statusLine is the one-line stat summary used in check-in replies.
func statusLine(pet *world.PetState) string {
	return fmt.Sprintf(" 🍔 饱食度 %d, 😊 快乐值 %d, 💖 健康值 %d, 💕 忠诚度 %d",
		pet.Stats.Hunger, pet.Stats.Happiness, pet.Stats.Health, pet.Stats.Loyalty)
}

func interactionText(pet *world.PetState, spec *data.ActionSpec, levelUps []LevelUpEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌟 %s%s 完成了%s%s！", pet.Species, pet.Name, spec.Emoji, spec.Label)
	b.WriteString(deltaLine(pet, spec.Delta()))
	for _, lv := range levelUps {
		fmt.Fprintf(&b, "\n🎉 %s%s 升级了！现在是 %d 级。", pet.Species, pet.Name, lv.NewLevel)
		if lv.Evolution != nil {
			fmt.Fprintf(&b, "\n✨🌟✨%s从[%s]进化成了【%s】!!✨🌟✨",
				pet.Name, lv.Evolution.From, lv.Evolution.To)
		}
	}
	return b.String()
}

// deltaLine renders "stat current (+delta)" pairs for the changed stats.
func deltaLine(pet *world.PetState, d world.StatDelta) string {
	type entry struct {
		label string
		cur   int
		delta int
	}
	entries := []entry{
		{"🍔 饱食度", pet.Stats.Hunger, d.Hunger},
		{"😊 快乐值", pet.Stats.Happiness, d.Happiness},
		{"💖 健康值", pet.Stats.Health, d.Health},
		{"💕 忠诚度", pet.Stats.Loyalty, d.Loyalty},
	}
	var parts []string
	for _, e := range entries {
		if e.delta == 0 {
			continue
		}
		sign := ""
		if e.delta >= 0 {
			sign = "+"
		}
		parts = append(parts, fmt.Sprintf("%s %d (%s%d)", e.label, e.cur, sign, e.delta))
	}
	return strings.Join(parts, ", ")
}

func taskText(pet *world.PetState, coins int) string {
	return fmt.Sprintf("%s%s 完成了任务，获得了 %d 金币！", pet.Species, pet.Name, coins)
}
