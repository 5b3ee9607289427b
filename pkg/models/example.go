/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Example struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Example) TableName() string {
	return "examples"
}

// BeforeCreate assigns a v7 id so sqlite and postgres behave the same.
func (e *Example) BeforeCreate(*gorm.DB) error {
	if e.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (e *Example) ToDto() *ExampleDto {
	return &ExampleDto{
		ID:        e.ID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
	}
}

type ExampleDto struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateExampleDto struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type UpdateExampleDto struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type ExampleIDParams struct {
	ID string `uri:"id" validate:"required,uuid"`
}

// UUID is only valid after the params passed validation.
func (p *ExampleIDParams) UUID() uuid.UUID {
	return uuid.MustParse(p.ID)
}
